package config

import "github.com/spf13/viper"

// Data holds data layer configuration.
type Data struct {
	MongoDB *MongoDB
}

// MongoDB holds MongoDB connection coordinates.
type MongoDB struct {
	URI      string
	Database string
}

func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		MongoDB: &MongoDB{
			URI:      v.GetString("data.mongodb.uri"),
			Database: v.GetString("data.mongodb.database"),
		},
	}
}

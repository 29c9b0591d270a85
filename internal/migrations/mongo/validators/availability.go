package validators

import "go.mongodb.org/mongo-driver/bson"

var AvailabilityBlockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"service_id", "start_time", "end_time", "created_at"},
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "objectId"},
			"service_id": bson.M{"bsonType": "string", "minLength": 1, "maxLength": 64},
			"start_time": bson.M{"bsonType": "date"},
			"end_time":   bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

package validators

import "go.mongodb.org/mongo-driver/bson"

var CourtLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"owner", "expires_at"},
		"properties": bson.M{
			"owner":      bson.M{"bsonType": "string", "minLength": 1},
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var CourtValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"complex_id",
			"opening_time",
			"closing_time",
			"reservation_duration",
			"hourly_rate",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"complex_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"name": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"opening_time": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{2}:\d{2}(:\d{2})?$`,
			},

			"closing_time": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{2}:\d{2}(:\d{2})?$`,
			},

			"reservation_duration": bson.M{
				"bsonType":         []string{"double", "int", "long"},
				"exclusiveMinimum": 0,
				"maximum":          24,
			},

			"hourly_rate": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},

			"divisible": bson.M{
				"bsonType": "bool",
			},

			"max_divisions": bson.M{
				"bsonType": integer,
				"minimum":  0,
				"maximum":  16,
			},

			"timezone": bson.M{
				"bsonType": "string",
			},
		},
	},
}

package validators

import "go.mongodb.org/mongo-driver/bson"

var integer = []string{"int", "long"}

var unitSchema = bson.M{
	"bsonType": "object",
	"required": []string{"kind"},
	"properties": bson.M{
		"kind": bson.M{
			"bsonType": "string",
			"enum":     []string{"whole_court", "section"},
		},
		"section": bson.M{
			"bsonType": integer,
			"minimum":  1,
		},
	},
}

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"customer_id",
			"court_id",
			"unit",
			"reservation_date",
			"start_time",
			"end_time",
			"status",
			"price_cents",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"customer_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"court_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"unit": unitSchema,

			"reservation_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
					"completed",
				},
			},

			"price_cents": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},

			"invoice_id": bson.M{
				"bsonType": "string",
			},

			"cancelled_by": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"cancelled_at": bson.M{
				"bsonType": "date",
			},

			"completed_at": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

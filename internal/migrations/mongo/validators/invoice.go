package validators

import "go.mongodb.org/mongo-driver/bson"

var InvoiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"reservation_id",
			"court_id",
			"reservation_date",
			"amount_cents",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"reservation_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"court_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"reservation_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"amount_cents": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},

			"due_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"pending", "paid", "void"},
			},

			"paid_at": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

package gateway

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoGateway struct {
	client   *mongo.Client
	database string
}

func NewMongoGateway(database string) *MongoGateway {
	return &MongoGateway{database: database}
}

func (mg *MongoGateway) Connect(dsn string) error {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(dsn))
	if err != nil {
		return err
	}
	mg.client = client
	return nil
}

func (mg *MongoGateway) Close() error {
	return mg.client.Disconnect(context.Background())
}

// Replace drops the collection and inserts one document per row, keyed
// by column name. Mongo has no table schema; the typed column list only
// determines which values were rendered.
func (mg *MongoGateway) Replace(ctx context.Context, table Table) error {
	collection := mg.client.Database(mg.database).Collection(table.Name)
	if err := collection.Drop(ctx); err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(table.Rows))
	for _, row := range table.Rows {
		doc := bson.M{}
		for i, col := range table.Columns {
			doc[col.Name] = row[i]
		}
		docs = append(docs, doc)
	}

	_, err := collection.InsertMany(ctx, docs)
	return err
}

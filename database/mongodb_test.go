package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/SusheelSathyaraj/CsvToDB/config"
)

func TestMongoDatabaseName(t *testing.T) {
	assert.Equal(t, "spark_labs", mongoDatabaseName("mongodb://localhost:27017/spark_labs?authSource=admin"))
	assert.Equal(t, "", mongoDatabaseName("mongodb://localhost:27017"))
}

func TestMongoNamespace(t *testing.T) {
	w := &MongoDBWriter{DBName: "spark_labs"}

	db, coll, err := w.namespace("spark.ch02")
	require.NoError(t, err)
	assert.Equal(t, "spark", db)
	assert.Equal(t, "ch02", coll)

	db, coll, err = w.namespace("ch02")
	require.NoError(t, err)
	assert.Equal(t, "spark_labs", db)
	assert.Equal(t, "ch02", coll)

	_, _, err = (&MongoDBWriter{}).namespace("ch02")
	assert.Error(t, err)
	_, _, err = w.namespace(".")
	assert.Error(t, err)
}

func TestToDocuments(t *testing.T) {
	docs := toDocuments([]string{"lname", "fname", "name"}, [][]string{{"", "Madonna", ", Madonna"}})
	require.Len(t, docs, 1)
	assert.Equal(t, bson.D{
		{Key: "lname", Value: ""},
		{Key: "fname", Value: "Madonna"},
		{Key: "name", Value: ", Madonna"},
	}, docs[0])
}

func TestMongoDBOverwrite(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("Skipping Tests: MONGODB_URI must be present")
	}

	ctx := context.Background()
	w, err := Open(ctx, &config.Connection{URL: uri, Driver: "mongodb"}, Options{BatchSize: 1})
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 2; i++ {
		n, err := w.Overwrite(ctx, "csv2db_test.authors", authors(t))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	}

	count, err := w.CountRows(ctx, "csv2db_test.authors")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMongoDBWriter_NotConnected(t *testing.T) {
	w := &MongoDBWriter{DBName: "x"}
	_, err := w.Overwrite(context.Background(), "ch02", authors(t))
	assert.Error(t, err)
	assert.NoError(t, w.Close())
}

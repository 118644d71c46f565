package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SusheelSathyaraj/CsvToDB/config"
	"github.com/SusheelSathyaraj/CsvToDB/dataset"
)

// MongoDBWriter replaces a collection's documents with the dataset's rows.
// Drop and insert are separate operations; there is no transaction.
type MongoDBWriter struct {
	URI    string
	DBName string
	Client *mongo.Client
	opts   Options
}

// mongoDatabaseName extracts the database from mongodb://host/db?...
func mongoDatabaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// connecting to mongoDB
func openMongoDB(ctx context.Context, c *config.Connection, opts Options) (Writer, error) {
	uri := stripJDBC(c.URL)

	//setting client options
	clientOptions := options.Client().ApplyURI(uri)
	if c.User != "" {
		clientOptions.SetAuth(options.Credential{Username: c.User, Password: c.Password})
	}

	//setting timeout for connection
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	//checking connection
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoDBWriter{
		URI:    uri,
		DBName: mongoDatabaseName(uri),
		Client: client,
		opts:   opts,
	}, nil
}

// namespace resolves "db.collection", or a bare collection in the URL's database.
func (m *MongoDBWriter) namespace(table string) (string, string, error) {
	parts := splitTable(table)
	switch {
	case len(parts) == 1 && m.DBName != "":
		return m.DBName, parts[0], nil
	case len(parts) == 1:
		return "", "", fmt.Errorf("table %q has no database and the url names none", table)
	case len(parts) >= 2:
		return parts[0], strings.Join(parts[1:], "."), nil
	}
	return "", "", fmt.Errorf("invalid table name %q", table)
}

// toDocuments converts rows to ordered documents keyed by column name.
func toDocuments(columns []string, rows [][]string) []interface{} {
	docs := make([]interface{}, len(rows))
	for i, row := range rows {
		doc := make(bson.D, len(columns))
		for j, col := range columns {
			doc[j] = bson.E{Key: col, Value: row[j]}
		}
		docs[i] = doc
	}
	return docs
}

func (m *MongoDBWriter) Overwrite(ctx context.Context, table string, ds *dataset.Dataset) (int64, error) {
	if m.Client == nil {
		return 0, fmt.Errorf("database connection not established")
	}
	dbName, collName, err := m.namespace(table)
	if err != nil {
		return 0, err
	}
	coll := m.Client.Database(dbName).Collection(collName)

	if err := coll.Drop(ctx); err != nil {
		return 0, fmt.Errorf("failed to drop collection %s: %w", table, err)
	}

	var written int64
	columns := ds.Columns()
	processor := NewBatchProcessor(m.opts.BatchSize)
	err = processor.ProcessInBatches(ds.Rows(), func(batch [][]string) error {
		res, err := coll.InsertMany(ctx, toDocuments(columns, batch))
		if err != nil {
			return fmt.Errorf("failed to insert documents: %w", err)
		}
		written += int64(len(res.InsertedIDs))
		m.opts.reportProgress(len(batch))
		return nil
	})
	if err != nil {
		return written, err
	}
	return written, nil
}

func (m *MongoDBWriter) CountRows(ctx context.Context, table string) (int64, error) {
	dbName, collName, err := m.namespace(table)
	if err != nil {
		return 0, err
	}
	n, err := m.Client.Database(dbName).Collection(collName).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents in %s: %w", table, err)
	}
	return n, nil
}

// closing the mongodb connection
func (m *MongoDBWriter) Close() error {
	if m.Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return m.Client.Disconnect(ctx)
	}
	return nil
}

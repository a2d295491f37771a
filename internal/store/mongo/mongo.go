// Package mongo implements the patient and appointment stores on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/iksnae/voice-desk/internal"
	"github.com/iksnae/voice-desk/internal/store"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	PatientsCollection     = "patient_data"
	AppointmentsCollection = "appointments"
)

// Config holds connection settings.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Client owns the process-wide MongoDB connection.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	uri    string
}

// ResolveURI makes sure the connection string names the database and asks for
// retryable, majority-acknowledged writes.
func ResolveURI(uri, database string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return "", fmt.Errorf("parse connection string: %w", err)
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if strings.Trim(u.Path, "/") == "" {
		u.Path = "/" + database
	}
	q := u.Query()
	if q.Get("retryWrites") == "" {
		q.Set("retryWrites", "true")
	}
	if q.Get("w") == "" {
		q.Set("w", "majority")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Connect dials MongoDB and pings it before returning.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, &internal.ConfigError{Key: "mongodb.connection_string", Err: errors.New("connection string is empty")}
	}
	if cfg.Database == "" {
		cfg.Database = internal.DefaultMongoDatabase
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	uri, err := ResolveURI(cfg.URI, cfg.Database)
	if err != nil {
		return nil, &internal.ConfigError{Key: "mongodb.connection_string", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(cfg.ConnectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, &internal.StorageError{Path: redact(uri), Op: "open", Err: err}
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &internal.StorageError{Path: redact(uri), Op: "ping", Err: err}
	}

	log.Info().Str("database", cfg.Database).Msg("Connected to MongoDB")
	return &Client{client: client, db: client.Database(cfg.Database), uri: uri}, nil
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Patients returns the patient store backed by this client.
func (c *Client) Patients() *PatientStore {
	return &PatientStore{coll: c.db.Collection(PatientsCollection)}
}

// Appointments returns the appointment store backed by this client.
func (c *Client) Appointments() *AppointmentStore {
	return &AppointmentStore{coll: c.db.Collection(AppointmentsCollection)}
}

// redact hides credentials in a connection string for logs and errors.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	u.User = url.User(u.User.Username())
	return u.String()
}

// PatientStore implements store.PatientStore.
type PatientStore struct {
	coll *mongo.Collection
}

var _ store.PatientStore = (*PatientStore)(nil)

// FindPatient returns the patient whose patient_id equals id exactly, so a
// string id never matches an integer one.
func (s *PatientStore) FindPatient(ctx context.Context, id any) (store.Patient, error) {
	var p store.Patient
	err := s.coll.FindOne(ctx, bson.M{"patient_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Patient{}, store.ErrNotFound
		}
		return store.Patient{}, &internal.StorageError{Path: PatientsCollection, Op: "query", Err: err}
	}
	return p, nil
}

// AppointmentStore implements store.AppointmentStore.
type AppointmentStore struct {
	coll *mongo.Collection
}

var _ store.AppointmentStore = (*AppointmentStore)(nil)

// Book inserts the appointment and returns the new document id.
func (s *AppointmentStore) Book(ctx context.Context, a store.Appointment) (string, error) {
	res, err := s.coll.InsertOne(ctx, a)
	if err != nil {
		return "", &internal.StorageError{Path: AppointmentsCollection, Op: "insert", Err: err}
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

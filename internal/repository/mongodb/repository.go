package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
)

const (
	stateCollection    = "report_state"
	snapshotCollection = "financial_snapshots"
	periodStateID      = "report_period"
)

// Repository defines the interface for reporting state storage.
type Repository interface {
	LoadPeriod(ctx context.Context) (models.Period, bool, error)
	SavePeriod(ctx context.Context, period models.Period) error
	SaveFinancialSnapshot(ctx context.Context, snapshot FinancialSnapshot) error
}

// FinancialSnapshot freezes the financial summaries seen at one moment so
// later edits to source records do not silently rewrite closed months.
type FinancialSnapshot struct {
	ID          string                    `bson:"_id"`
	Period      models.Period             `bson:"period"`
	GeneratedAt time.Time                 `bson:"generatedAt"`
	Summaries   []models.FinancialSummary `bson:"-"`
}

// amounts are stored as strings to keep decimal precision
type summaryDocument struct {
	Period           models.Period `bson:"period"`
	TreatmentRevenue string        `bson:"treatmentRevenue"`
	SalesRevenue     string        `bson:"salesRevenue"`
	FieldTripRevenue string        `bson:"fieldTripRevenue"`
	SalaryCosts      string        `bson:"salaryCosts"`
	DoctorFees       string        `bson:"doctorFees"`
	Expenses         string        `bson:"expenses"`
	NetProfit        string        `bson:"netProfit"`
}

type snapshotDocument struct {
	ID          string            `bson:"_id"`
	Period      models.Period     `bson:"period"`
	GeneratedAt time.Time         `bson:"generatedAt"`
	Summaries   []summaryDocument `bson:"summaries"`
}

type periodDocument struct {
	ID        string        `bson:"_id"`
	Period    models.Period `bson:"period"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// LoadPeriod returns the last reporting period the service saw. The boolean
// is false when nothing has been stored yet.
func (r *MongoDBRepository) LoadPeriod(ctx context.Context) (models.Period, bool, error) {
	var doc periodDocument
	err := r.collection(stateCollection).FindOne(ctx, bson.M{"_id": periodStateID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Period{}, false, nil
	}
	if err != nil {
		return models.Period{}, false, fmt.Errorf("failed to load report period: %w", err)
	}
	return doc.Period, true, nil
}

// SavePeriod stores period as the last seen reporting period.
func (r *MongoDBRepository) SavePeriod(ctx context.Context, period models.Period) error {
	doc := periodDocument{ID: periodStateID, Period: period, UpdatedAt: time.Now().UTC()}
	_, err := r.collection(stateCollection).ReplaceOne(ctx, bson.M{"_id": periodStateID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save report period: %w", err)
	}
	return nil
}

// SaveFinancialSnapshot inserts snapshot, assigning an id when missing.
func (r *MongoDBRepository) SaveFinancialSnapshot(ctx context.Context, snapshot FinancialSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}
	doc := snapshotDocument{
		ID:          snapshot.ID,
		Period:      snapshot.Period,
		GeneratedAt: snapshot.GeneratedAt,
		Summaries:   make([]summaryDocument, 0, len(snapshot.Summaries)),
	}
	for _, s := range snapshot.Summaries {
		doc.Summaries = append(doc.Summaries, summaryDocument{
			Period:           s.Period,
			TreatmentRevenue: s.TotalTreatmentRevenue.String(),
			SalesRevenue:     s.TotalSalesRevenue.String(),
			FieldTripRevenue: s.TotalFieldTripRevenue.String(),
			SalaryCosts:      s.TotalSalaryCosts.String(),
			DoctorFees:       s.TotalDoctorFees.String(),
			Expenses:         s.TotalExpenses.String(),
			NetProfit:        s.NetProfit.String(),
		})
	}

	if _, err := r.collection(snapshotCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert financial snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "github.com/alvsuut-buddy/Smart-Charity/models"
)

const (
	fieldAmount     = "nominal"
	fieldRecordedAt = "timestamp"
)

type mongoCollection struct {
	col *mongo.Collection
	now func() time.Time
}

func newMongoCollection(db *mongo.Database, name string) *mongoCollection {
	return &mongoCollection{col: db.Collection(name), now: time.Now}
}

func (c *mongoCollection) name() string { return c.col.Name() }

func (c *mongoCollection) Insert(ctx context.Context, d *models.Donation) error {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	ts := c.now().UTC().Truncate(time.Millisecond)
	d.CreatedAt, d.UpdatedAt = ts, ts

	if _, err := c.col.InsertOne(ctx, d); err != nil {
		return storageErr("insert", c.name(), err)
	}
	return nil
}

func (c *mongoCollection) SumAndCount(ctx context.Context, f Filter) (int64, int64, error) {
	st, err := c.aggregate(ctx, f, false)
	return st.Total, st.Count, err
}

func (c *mongoCollection) SumCountAvg(ctx context.Context, f Filter) (Stats, error) {
	return c.aggregate(ctx, f, true)
}

func (c *mongoCollection) aggregate(ctx context.Context, f Filter, withAvg bool) (Stats, error) {
	group := bson.D{
		{Key: "_id", Value: nil},
		{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + fieldAmount}}},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	}
	if withAvg {
		group = append(group, bson.E{Key: "average", Value: bson.D{{Key: "$avg", Value: "$" + fieldAmount}}})
	}

	pipeline := mongo.Pipeline{}
	if match := matchStage(f); len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: group}})

	cursor, err := c.col.Aggregate(ctx, pipeline)
	if err != nil {
		return Stats{}, storageErr("sum", c.name(), err)
	}
	var out []struct {
		Total   int64   `bson:"total"`
		Count   int64   `bson:"count"`
		Average float64 `bson:"average"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return Stats{}, storageErr("sum", c.name(), err)
	}
	if len(out) == 0 {
		return Stats{}, nil
	}
	st := Stats{Total: out[0].Total, Count: out[0].Count}
	if withAvg && st.Count > 0 {
		st.Average = roundAverage(out[0].Average)
	}
	return st, nil
}

func (c *mongoCollection) FindPage(ctx context.Context, q PageQuery) ([]models.Donation, int64, error) {
	if q.Limit <= 0 || q.Offset < 0 {
		total, err := c.count(ctx)
		return []models.Donation{}, total, err
	}
	opts := options.Find().
		SetSort(sortDoc(q.Sort)).
		SetLimit(q.Limit)
	if q.Offset > 0 {
		opts.SetSkip(q.Offset)
	}

	rows, err := c.find(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := c.count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (c *mongoCollection) FindTopN(ctx context.Context, key SortKey, limit int64) ([]models.Donation, error) {
	if limit <= 0 {
		return []models.Donation{}, nil
	}
	return c.find(ctx, options.Find().SetSort(sortDoc(key)).SetLimit(limit))
}

func (c *mongoCollection) find(ctx context.Context, opts *options.FindOptions) ([]models.Donation, error) {
	cursor, err := c.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, storageErr("find", c.name(), err)
	}
	rows := []models.Donation{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, storageErr("find", c.name(), err)
	}
	return rows, nil
}

func (c *mongoCollection) count(ctx context.Context) (int64, error) {
	n, err := c.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, storageErr("count", c.name(), err)
	}
	return n, nil
}

// EnsureIndexes creates the indexes backing time-window and ranking queries.
func (c *mongoCollection) EnsureIndexes(ctx context.Context) error {
	_, err := c.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: fieldRecordedAt, Value: -1}}},
		{Keys: bson.D{{Key: fieldAmount, Value: -1}}},
	})
	return storageErr("create indexes", c.name(), err)
}

func matchStage(f Filter) bson.D {
	var cond bson.D
	if !f.From.IsZero() {
		cond = append(cond, bson.E{Key: "$gte", Value: f.From})
	}
	if !f.To.IsZero() {
		op := "$lt"
		if f.ToInclusive {
			op = "$lte"
		}
		cond = append(cond, bson.E{Key: op, Value: f.To})
	}
	if len(cond) == 0 {
		return nil
	}
	return bson.D{{Key: fieldRecordedAt, Value: cond}}
}

func sortDoc(key SortKey) bson.D {
	switch key {
	case SortAmountDesc:
		return bson.D{{Key: fieldAmount, Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: fieldRecordedAt, Value: -1}, {Key: "_id", Value: 1}}
	}
}

// MongoLedger stores the current donations in the "donations" collection.
type MongoLedger struct {
	*mongoCollection
}

func NewMongoLedger(db *mongo.Database) *MongoLedger {
	return &MongoLedger{newMongoCollection(db, LedgerCollection)}
}

func (l *MongoLedger) ClearAll(ctx context.Context) (int64, error) {
	res, err := l.col.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, storageErr("clear", l.name(), err)
	}
	return res.DeletedCount, nil
}

// MongoHistory stores every donation ever received in "histories".
type MongoHistory struct {
	*mongoCollection
}

func NewMongoHistory(db *mongo.Database) *MongoHistory {
	return &MongoHistory{newMongoCollection(db, HistoryCollection)}
}

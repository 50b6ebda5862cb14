package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shestoi/magazyn/internal/repository"
)

// ItemDocument представляет документ в коллекции MongoDB.
// Имена полей совпадают с колонками таблицы magazyn.
type ItemDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"nazwa"`
	Quantity  int                  `bson:"ilosc"`
	UnitPrice primitive.Decimal128 `bson:"cena"`
	// AddedAt хранится строкой YYYY-MM-DD: лексикографический порядок совпадает с хронологическим
	AddedAt string `bson:"data_dodania"`
}

// Repository реализует repository.Table используя MongoDB
type Repository struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewRepository создаёт MongoDB репозиторий.
// Создаёт индекс на data_dodania при инициализации.
func NewRepository(client *mongo.Client, dbName, collection string) *Repository {
	if collection == "" {
		collection = repository.DefaultTable
	}
	col := client.Database(dbName).Collection(collection)

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: repository.ColumnAddedAt, Value: -1}},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// индекс уже может существовать, ошибку игнорируем
	_, _ = col.Indexes().CreateOne(ctx, indexModel)

	return &Repository{
		client: client,
		col:    col,
	}
}

// sortable поля, по которым коллекция умеет сортировать
var sortable = map[string]string{
	repository.ColumnID:      "_id",
	repository.ColumnName:    repository.ColumnName,
	repository.ColumnAddedAt: repository.ColumnAddedAt,
}

// SelectOrdered возвращает документы, отсортированные по column.
// Для неизвестного поля возвращает ErrOrderingUnsupported.
func (r *Repository) SelectOrdered(ctx context.Context, column string, descending bool) ([]repository.Item, error) {
	field, ok := sortable[column]
	if !ok {
		return nil, fmt.Errorf("%w: unknown field %q", repository.ErrOrderingUnsupported, column)
	}
	direction := 1
	if descending {
		direction = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: field, Value: direction}, {Key: "_id", Value: 1}})
	return r.find(ctx, opts)
}

// SelectAll возвращает документы в естественном порядке коллекции
func (r *Repository) SelectAll(ctx context.Context) ([]repository.Item, error) {
	return r.find(ctx, options.Find())
}

func (r *Repository) find(ctx context.Context, opts *options.FindOptions) ([]repository.Item, error) {
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, unavailable(err)
	}
	defer cur.Close(ctx)

	items := make([]repository.Item, 0)
	for cur.Next(ctx) {
		var doc ItemDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, unavailable(err)
		}
		item, err := doc.toItem()
		if err != nil {
			return nil, unavailable(err)
		}
		items = append(items, item)
	}
	if err := cur.Err(); err != nil {
		return nil, unavailable(err)
	}
	return items, nil
}

func (d ItemDocument) toItem() (repository.Item, error) {
	price, err := decimal.NewFromString(d.UnitPrice.String())
	if err != nil {
		return repository.Item{}, fmt.Errorf("document %s: invalid price: %w", d.ID.Hex(), err)
	}
	addedAt, err := repository.ParseDate(d.AddedAt)
	if err != nil {
		return repository.Item{}, fmt.Errorf("document %s: %w", d.ID.Hex(), err)
	}
	return repository.Item{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Quantity:  d.Quantity,
		UnitPrice: price,
		AddedAt:   addedAt,
	}, nil
}

// Insert добавляет документ; _id назначает драйвер
func (r *Repository) Insert(ctx context.Context, item repository.NewItem) error {
	price, err := primitive.ParseDecimal128(item.UnitPrice.String())
	if err != nil {
		return fmt.Errorf("invalid price %s: %w", item.UnitPrice, err)
	}
	_, err = r.col.InsertOne(ctx, ItemDocument{
		Name:      item.Name,
		Quantity:  item.Quantity,
		UnitPrice: price,
		AddedAt:   repository.FormatDate(item.AddedAt),
	})
	return unavailable(err)
}

// UpdateQuantity выставляет ilosc документа id.
// Некорректный id не может совпасть ни с одним документом, это no-op.
func (r *Repository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{repository.ColumnQuantity: quantity}})
	return unavailable(err)
}

// Delete удаляет документ id; отсутствие документа не является ошибкой
func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"_id": oid})
	return unavailable(err)
}

// Ping проверяет соединение с primary
func (r *Repository) Ping(ctx context.Context) error {
	return unavailable(r.client.Ping(ctx, readpref.Primary()))
}

func unavailable(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", repository.ErrRejected, err)
	}
	return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
}

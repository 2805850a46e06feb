package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporting/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Role      string    `bson:"role"`
	IsActive  bool      `bson:"isActive"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (d userDoc) toModel() (models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:        id,
		Name:      d.Name,
		Email:     d.Email,
		Role:      models.Role(d.Role),
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

// Users - каталог пользователей в MongoDB, только чтение
type Users struct {
	users *mongo.Collection
}

func NewUsers(db *mongo.Database) *Users {
	return &Users{users: db.Collection(usersCollection)}
}

func (u *Users) GetUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	out := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make(bson.A, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}
	users, err := u.find(ctx, bson.M{"_id": bson.M{"$in": keys}}, options.Find())
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		out[user.ID] = user
	}
	return out, nil
}

func (u *Users) RecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return u.find(ctx, bson.M{}, opts)
}

func (u *Users) CountUsers(ctx context.Context) (models.UserCounts, error) {
	total, err := u.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.UserCounts{}, infraErr("count users", err)
	}
	active, err := u.users.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return models.UserCounts{}, infraErr("count active users", err)
	}
	return models.UserCounts{Total: total, Active: active}, nil
}

func (u *Users) find(ctx context.Context, q bson.M, opts *options.FindOptions) ([]models.User, error) {
	cursor, err := u.users.Find(ctx, q, opts)
	if err != nil {
		return nil, infraErr("find users", err)
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, infraErr("decode users", err)
	}
	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		user, err := doc.toModel()
		if err != nil {
			return nil, infraErr("decode user", err)
		}
		users = append(users, user)
	}
	return users, nil
}

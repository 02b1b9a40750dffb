package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

const accountCollection = "accounts"

// AccountRepository persists every role in one collection; staff accounts are
// not split into a separate table.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type mongoAccount struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Email          string             `bson:"email"`
	Name           string             `bson:"name"`
	Phone          string             `bson:"phone,omitempty"`
	PasswordHash   string             `bson:"password_hash"`
	Role           string             `bson:"role"`
	Profile        mongoProfile       `bson:"profile"`
	ManagedRegions []string           `bson:"managed_regions,omitempty"`
	CreatedBy      string             `bson:"created_by,omitempty"`
	CreatedAt      int64              `bson:"created_at"`
	UpdatedAt      int64              `bson:"updated_at"`
}

type mongoProfile struct {
	Address          string `bson:"address,omitempty"`
	DateOfBirth      string `bson:"dob,omitempty"`
	Bio              string `bson:"bio,omitempty"`
	PreferredCountry string `bson:"preferred_country,omitempty"`
	EducationLevel   string `bson:"education_level,omitempty"`
	FundingSource    string `bson:"funding_source,omitempty"`
	Budget           string `bson:"budget,omitempty"`
}

func toMongoAccount(a *domain.Account) mongoAccount {
	return mongoAccount{
		Email:        a.Email,
		Name:         a.Name,
		Phone:        a.Phone,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		Profile: mongoProfile{
			Address:          a.Profile.Address,
			DateOfBirth:      a.Profile.DateOfBirth,
			Bio:              a.Profile.Bio,
			PreferredCountry: a.Profile.PreferredCountry,
			EducationLevel:   a.Profile.EducationLevel,
			FundingSource:    a.Profile.FundingSource,
			Budget:           a.Profile.Budget,
		},
		ManagedRegions: a.ManagedRegions,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt.Unix(),
		UpdatedAt:      a.UpdatedAt.Unix(),
	}
}

func toDomainAccount(m mongoAccount) *domain.Account {
	return &domain.Account{
		ID:           m.ID.Hex(),
		Email:        m.Email,
		Name:         m.Name,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		Profile: domain.Profile{
			Address:          m.Profile.Address,
			DateOfBirth:      m.Profile.DateOfBirth,
			Bio:              m.Profile.Bio,
			PreferredCountry: m.Profile.PreferredCountry,
			EducationLevel:   m.Profile.EducationLevel,
			FundingSource:    m.Profile.FundingSource,
			Budget:           m.Profile.Budget,
		},
		ManagedRegions: m.ManagedRegions,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      unixToTime(m.CreatedAt),
		UpdatedAt:      unixToTime(m.UpdatedAt),
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoAccount(account))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := *account
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return toDomainAccount(m), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return toDomainAccount(m), nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, name, phone string, profile domain.Profile) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":  name,
		"phone": phone,
		"profile": mongoProfile{
			Address:          profile.Address,
			DateOfBirth:      profile.DateOfBirth,
			Bio:              profile.Bio,
			PreferredCountry: profile.PreferredCountry,
			EducationLevel:   profile.EducationLevel,
			FundingSource:    profile.FundingSource,
			Budget:           profile.Budget,
		},
		"updated_at": time.Now().UTC().Unix(),
	}}

	var m mongoAccount
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		findOneAndUpdateReturnAfter()).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return toDomainAccount(m), nil
}

func (r *AccountRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"role": string(role)})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var accounts []*domain.Account
	for cur.Next(ctx) {
		var m mongoAccount
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	return accounts, cur.Err()
}

// EnsureIndexes creates the unique email index that backs the
// case-insensitive uniqueness invariant (emails are stored normalized).
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: uniqueIndex()},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	})
	return err
}

package store

import (
	"context"
	"errors"
	"fmt"

	"subscription-app/internal/domain/billing"
	"subscription-app/internal/domain/users"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) CreateUser(ctx context.Context, u *users.User, sub *billing.Subscription) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			return err
		}
		sub.UserID = u.ID
		return tx.Create(sub).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	u.Subscription = sub
	return nil
}

func (s *Gorm) FindUserByEmail(ctx context.Context, email string) (*users.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *Gorm) FindUserByID(ctx context.Context, id string) (*users.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *Gorm) FindUserByCustomerID(ctx context.Context, customerID string) (*users.User, error) {
	return s.findUser(ctx, "stripe_customer_id = ?", customerID)
}

func (s *Gorm) findUser(ctx context.Context, query string, arg interface{}) (*users.User, error) {
	var u users.User
	err := s.db.WithContext(ctx).
		Preload("Subscription").
		Where(query, arg).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Gorm) ListUsers(ctx context.Context) ([]users.User, error) {
	var list []users.User
	if err := s.db.WithContext(ctx).
		Preload("Subscription").
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

func (s *Gorm) SetUserCustomerID(ctx context.Context, userID, customerID string) error {
	res := s.db.WithContext(ctx).
		Model(&users.User{}).
		Where("id = ?", userID).
		Update("stripe_customer_id", customerID)
	if res.Error != nil {
		return fmt.Errorf("set customer id: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) FindSubscription(ctx context.Context, userID string) (*billing.Subscription, error) {
	var sub billing.Subscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

// SaveSubscription overwrites every column of an existing row.
func (s *Gorm) SaveSubscription(ctx context.Context, sub *billing.Subscription) error {
	if sub.ID == "" {
		return errors.New("save subscription: missing id")
	}
	if err := s.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	return nil
}

func (s *Gorm) FindAdminProfile(ctx context.Context, userID string) (*users.AdminProfile, error) {
	var p users.AdminProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// SaveAdminProfile upserts on user_id.
func (s *Gorm) SaveAdminProfile(ctx context.Context, p *users.AdminProfile) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stripe_publishable_key", "stripe_secret_key", "stripe_webhook_secret", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return fmt.Errorf("save admin profile: %w", err)
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

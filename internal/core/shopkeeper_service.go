package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// ShopkeeperService manages tenant accounts and credential checks.
type ShopkeeperService interface {
	Register(ctx context.Context, email, name, shopName, password string) (*Shopkeeper, error)
	// Authenticate verifies credentials; failures surface as
	// ErrInvalidCredentials without distinguishing unknown email from a
	// wrong password.
	Authenticate(ctx context.Context, email, password string) (*Shopkeeper, error)
	GetByID(ctx context.Context, shopkeeperID int) (*Shopkeeper, error)
}

type shopkeeperService struct {
	pool *pgxpool.Pool
}

func NewShopkeeperService(pool *pgxpool.Pool) ShopkeeperService {
	return &shopkeeperService{pool: pool}
}

func (s *shopkeeperService) Register(ctx context.Context, email, name, shopName, password string) (*Shopkeeper, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	sk := &Shopkeeper{}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO shopkeepers (email, name, shop_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, name, shop_name, password_hash, is_active, created_at`,
		email, strings.TrimSpace(name), strings.TrimSpace(shopName), string(hash),
	).Scan(&sk.ID, &sk.Email, &sk.Name, &sk.ShopName, &sk.PasswordHash, &sk.IsActive, &sk.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("register %s: %w", email, ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("register shopkeeper: %w", err)
	}
	return sk, nil
}

func (s *shopkeeperService) Authenticate(ctx context.Context, email, password string) (*Shopkeeper, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	sk := &Shopkeeper{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, name, shop_name, password_hash, is_active, created_at
		FROM shopkeepers
		WHERE email = $1 AND is_active = true`,
		email,
	).Scan(&sk.ID, &sk.Email, &sk.Name, &sk.ShopName, &sk.PasswordHash, &sk.IsActive, &sk.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup shopkeeper: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(sk.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return sk, nil
}

func (s *shopkeeperService) GetByID(ctx context.Context, shopkeeperID int) (*Shopkeeper, error) {
	sk := &Shopkeeper{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, name, shop_name, password_hash, is_active, created_at
		FROM shopkeepers
		WHERE id = $1`,
		shopkeeperID,
	).Scan(&sk.ID, &sk.Email, &sk.Name, &sk.ShopName, &sk.PasswordHash, &sk.IsActive, &sk.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("shopkeeper %d: %w", shopkeeperID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch shopkeeper %d: %w", shopkeeperID, err)
	}
	return sk, nil
}

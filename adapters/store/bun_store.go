package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/openclip/walletgate/core"
	"github.com/openclip/walletgate/ports"
)

type accountRow struct {
	bun.BaseModel `bun:"table:accounts"`

	ID            uuid.UUID `bun:",pk,type:uuid"`
	UserID        uuid.UUID `bun:"user_id,notnull,type:uuid,unique"`
	WalletAddress string    `bun:"wallet_address,notnull,unique"`
	Username      string    `bun:"username,notnull,unique"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	LastLoginAt   time.Time `bun:"last_login_at,nullzero,notnull,default:current_timestamp"`
}

type authUserRow struct {
	bun.BaseModel `bun:"table:auth_users"`

	ID                uuid.UUID `bun:",pk,type:uuid"`
	EncryptedPassword string    `bun:"encrypted_password,notnull"`
	CreatedAt         time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	LastSignInAt      time.Time `bun:"last_sign_in_at,nullzero,notnull,default:current_timestamp"`
}

// BunStore is the Postgres implementation of the identity store. The unique
// constraint on accounts.wallet_address is the authority for the
// find-or-create race.
type BunStore struct {
	db *bun.DB
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

var _ ports.IdentityStore = (*BunStore)(nil)

// Init creates the tables if they do not exist yet.
func (s *BunStore) Init(ctx context.Context) error {
	for _, model := range []any{(*authUserRow)(nil), (*accountRow)(nil)} {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrap(err, "identityStore.Init.CreateTable")
		}
	}
	return nil
}

func (s *BunStore) FindByWallet(ctx context.Context, address string) (*core.Account, error) {
	row := new(accountRow)
	err := s.db.NewSelect().Model(row).Where("wallet_address = ?", address).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrAccountNotFound
		}
		return nil, errors.Wrap(err, "identityStore.FindByWallet.Scan")
	}
	return row.toAccount(), nil
}

func (s *BunStore) CreateAccountAndUser(ctx context.Context, address string) (*core.Account, error) {
	now := time.Now().UTC()

	secret, err := syntheticSecret()
	if err != nil {
		return nil, errors.Wrap(core.ErrCreateUser, err.Error())
	}

	user := &authUserRow{
		ID:                uuid.New(),
		EncryptedPassword: secret,
		CreatedAt:         now,
		LastSignInAt:      now,
	}
	account := &accountRow{
		ID:            uuid.New(),
		UserID:        user.ID,
		WalletAddress: address,
		Username:      core.DeriveUsername(address),
		CreatedAt:     now,
		LastLoginAt:   now,
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return errors.Wrap(core.ErrCreateUser, err.Error())
		}
		if _, err := tx.NewInsert().Model(account).Exec(ctx); err != nil {
			if isIntegrityViolation(err) {
				return core.ErrWalletExists
			}
			return errors.Wrap(core.ErrCreateProfile, err.Error())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account.toAccount(), nil
}

func (s *BunStore) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	now := time.Now().UTC()
	_, err := s.db.NewUpdate().Model((*accountRow)(nil)).
		Set("last_login_at = ?", now).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "identityStore.TouchLastLogin.Accounts")
	}
	_, err = s.db.NewUpdate().Model((*authUserRow)(nil)).
		Set("last_sign_in_at = ?", now).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "identityStore.TouchLastLogin.AuthUsers")
	}
	return nil
}

func (r *accountRow) toAccount() *core.Account {
	return &core.Account{
		ID:            r.ID,
		UserID:        r.UserID,
		WalletAddress: r.WalletAddress,
		Username:      r.Username,
		CreatedAt:     r.CreatedAt,
		LastLoginAt:   r.LastLoginAt,
	}
}

func isIntegrityViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.IntegrityViolation()
}

// syntheticSecret fills the auth user's password column for wallet accounts.
// It is random and never matchable; wallet sign-in has no password, the
// column only exists to satisfy the auth schema.
func syntheticSecret() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return "!walletonly:" + hex.EncodeToString(raw), nil
}

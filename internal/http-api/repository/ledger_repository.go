package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"novelhub/internal/http-api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrInsufficientBalance is returned when a conditional debit matches no
// row, i.e. the balance was below the requested amount at debit time.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrAlreadyUnlocked is returned when the unlock row collides with an
// existing one for the same (user, chapter) pair.
var ErrAlreadyUnlocked = errors.New("chapter already unlocked")

// Postgres unique_violation.
const uniqueViolationCode = "23505"

// LedgerRepository is the only component allowed to mutate coin balances.
// Every mutation is paired with an appended transaction row inside a
// single database transaction, so coins_balance always equals the sum of
// signed amounts for the user.
type LedgerRepository interface {
	// Purchase credits the balance and appends a purchase_coins row.
	Purchase(ctx context.Context, userID string, amount float64, description string) (*models.Transaction, error)
	// Unlock performs the conditional debit, the unlock row, and the
	// author earning credit atomically. authorShare is the fraction of
	// cost credited to authorID; a cost of zero records a free unlock
	// without touching any balance.
	Unlock(ctx context.Context, userID string, chapter *models.Chapter, authorID string, authorShare float64) (*models.Transaction, error)
	HasUnlocked(ctx context.Context, userID string, chapterID int64) (bool, error)
	GetBalance(ctx context.Context, userID string) (float64, error)
	GetByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Transaction, int64, error)
	GetAll(ctx context.Context, page, pageSize int) ([]models.Transaction, int64, error)
	GetRecent(ctx context.Context, limit int) ([]models.Transaction, error)
	GetRecentByUserAndType(ctx context.Context, userID, txType string, limit int) ([]models.Transaction, error)
	SumByType(ctx context.Context, txType string) (float64, error)
	SumByUserAndType(ctx context.Context, userID, txType string) (float64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Purchase(ctx context.Context, userID string, amount float64, description string) (*models.Transaction, error) {
	txn := &models.Transaction{
		UserID:      userID,
		Type:        models.TxPurchaseCoins,
		Amount:      amount,
		Description: description,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := creditBalance(tx, userID, amount); err != nil {
			return err
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return nil, fmt.Errorf("purchase coins: %w", err)
	}
	return txn, nil
}

func (r *ledgerRepository) Unlock(ctx context.Context, userID string, chapter *models.Chapter, authorID string, authorShare float64) (*models.Transaction, error) {
	cost := chapter.CoinCost
	txn := &models.Transaction{
		UserID:      userID,
		Type:        models.TxUnlockChapter,
		Amount:      -cost,
		Description: fmt.Sprintf("Unlocked chapter %d", chapter.ID),
		NovelID:     &chapter.NovelID,
		ChapterID:   &chapter.ID,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cost > 0 {
			// Conditional debit: the WHERE clause carries the balance
			// check, so two racing unlocks can never both pass against
			// a stale read.
			res := tx.Model(&models.User{}).
				Where("id = ? AND coins_balance >= ?", userID, cost).
				Update("coins_balance", gorm.Expr("coins_balance - ?", cost))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientBalance
			}
		}

		// The partial unique index on (user_id, chapter_id) for unlock
		// rows makes this insert the authoritative duplicate check:
		// a second unlock that slipped past any earlier read fails here
		// and rolls the debit back with it.
		if err := tx.Create(txn).Error; err != nil {
			if isUnlockConflict(err) {
				return ErrAlreadyUnlocked
			}
			return err
		}

		// Revenue split: credit the author inside the same transaction
		// so the debit and the earning can never be observed apart.
		earning := round2(cost * authorShare)
		if earning > 0 && authorID != userID {
			if err := creditBalance(tx, authorID, earning); err != nil {
				return err
			}
			earningTxn := &models.Transaction{
				UserID:      authorID,
				Type:        models.TxAuthorEarning,
				Amount:      earning,
				Description: fmt.Sprintf("Earning from chapter %d unlock", chapter.ID),
				NovelID:     &chapter.NovelID,
				ChapterID:   &chapter.ID,
			}
			if err := tx.Create(earningTxn).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientBalance) || errors.Is(err, ErrAlreadyUnlocked) {
			return nil, err
		}
		return nil, fmt.Errorf("unlock chapter: %w", err)
	}
	return txn, nil
}

func isUnlockConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolationCode &&
		pgErr.ConstraintName == "idx_transactions_unlock_once"
}

func (r *ledgerRepository) HasUnlocked(ctx context.Context, userID string, chapterID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ? AND chapter_id = ? AND type = ?", userID, chapterID, models.TxUnlockChapter).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ledgerRepository) GetBalance(ctx context.Context, userID string) (float64, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("coins_balance").Where("id = ?", userID).First(&user).Error; err != nil {
		return 0, err
	}
	return user.CoinsBalance, nil
}

func (r *ledgerRepository) GetByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Transaction, int64, error) {
	var list []models.Transaction
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *ledgerRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Transaction, int64, error) {
	var list []models.Transaction
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *ledgerRepository) GetRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *ledgerRepository) GetRecentByUserAndType(ctx context.Context, userID, txType string, limit int) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, txType).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *ledgerRepository) SumByType(ctx context.Context, txType string) (float64, error) {
	var sum struct {
		Total float64
	}
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("type = ?", txType).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum.Total, nil
}

func (r *ledgerRepository) SumByUserAndType(ctx context.Context, userID, txType string) (float64, error) {
	var sum struct {
		Total float64
	}
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("user_id = ? AND type = ?", userID, txType).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum.Total, nil
}

func (r *ledgerRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// creditBalance adds amount to a user's balance, failing if the user row
// does not exist.
func creditBalance(tx *gorm.DB, userID string, amount float64) error {
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("coins_balance", gorm.Expr("coins_balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

package service

import (
	"context"
	"sync"
	"testing"

	"novelhub/internal/http-api/models"
	"novelhub/internal/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func paidChapter() *models.Chapter {
	return &models.Chapter{
		ID:       10,
		NovelID:  5,
		Title:    "The Gate",
		CoinCost: 50,
		IsFree:   false,
	}
}

func TestPurchaseCoins_Success(t *testing.T) {
	mockLedger := new(MockLedgerRepository)
	mockUsers := new(MockUserRepository)
	svc := NewLedgerService(mockLedger, mockUsers, new(MockChapterRepository), new(MockNovelRepository), 0.7)

	mockUsers.On("FindByID", mock.Anything, "u1").Return(&models.User{ID: "u1"}, nil)
	mockLedger.On("Purchase", mock.Anything, "u1", 100.0, "coin pack").
		Return(&models.Transaction{ID: 1, UserID: "u1", Type: models.TxPurchaseCoins, Amount: 100}, nil)

	txn, err := svc.PurchaseCoins(context.Background(), "u1", 100, "coin pack")

	assert.NoError(t, err)
	assert.Equal(t, models.TxPurchaseCoins, txn.Type)
	assert.Equal(t, 100.0, txn.Amount)
	mockLedger.AssertExpectations(t)
}

func TestPurchaseCoins_UnknownUser(t *testing.T) {
	mockLedger := new(MockLedgerRepository)
	mockUsers := new(MockUserRepository)
	svc := NewLedgerService(mockLedger, mockUsers, new(MockChapterRepository), new(MockNovelRepository), 0.7)

	mockUsers.On("FindByID", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	txn, err := svc.PurchaseCoins(context.Background(), "ghost", 100, "coin pack")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, txn)
	mockLedger.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUnlockChapter_Success(t *testing.T) {
	mockLedger := new(MockLedgerRepository)
	mockUsers := new(MockUserRepository)
	mockChapters := new(MockChapterRepository)
	mockNovels := new(MockNovelRepository)
	svc := NewLedgerService(mockLedger, mockUsers, mockChapters, mockNovels, 0.7)

	chapter := paidChapter()
	mockUsers.On("FindByID", mock.Anything, "reader").Return(&models.User{ID: "reader"}, nil)
	mockChapters.On("GetByID", mock.Anything, int64(10)).Return(chapter, nil)
	mockLedger.On("HasUnlocked", mock.Anything, "reader", int64(10)).Return(false, nil)
	mockNovels.On("GetByID", mock.Anything, int64(5)).Return(&models.Novel{ID: 5, AuthorID: "writer"}, nil)
	mockLedger.On("Unlock", mock.Anything, "reader", chapter, "writer", 0.7).
		Return(&models.Transaction{ID: 2, UserID: "reader", Type: models.TxUnlockChapter, Amount: -50}, nil)

	txn, err := svc.UnlockChapter(context.Background(), "reader", 10, 50)

	assert.NoError(t, err)
	assert.Equal(t, models.TxUnlockChapter, txn.Type)
	assert.Equal(t, -50.0, txn.Amount)
	mockLedger.AssertExpectations(t)
}

func TestUnlockChapter_PriceMismatch(t *testing.T) {
	mockLedger := new(MockLedgerRepository)
	mockUsers := new(MockUserRepository)
	mockChapters := new(MockChapterRepository)
	svc := NewLedgerService(mockLedger, mockUsers, mockChapters, new(MockNovelRepository), 0.7)

	mockUsers.On("FindByID", mock.Anything, "reader").Return(&models.User{ID: "reader"}, nil)
	mockChapters.On("GetByID", mock.Anything, int64(10)).Return(paidChapter(), nil)

	txn, err := svc.UnlockChapter(context.Background(), "reader", 10, 30)

	assert.ErrorIs(t, err, ErrPriceMismatch)
	assert.Nil(t, txn)
	mockLedger.AssertNotCalled(t, "Unlock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUnlockChapter_AlreadyUnlocked(t *testing.T) {
	mockLedger := new(MockLedgerRepository)
	mockUsers := new(MockUserRepository)
	mockChapters := new(MockChapterRepository)
	svc := NewLedgerService(mockLedger, mockUsers, mockChapters, new(MockNovelRepository), 0.7)

	mockUsers.On("FindByID", mock.Anything, "reader").Return(&models.User{ID: "reader"}, nil)
	mockChapters.On("GetByID", mock.Anything, int64(10)).Return(paidChapter(), nil)
	mockLedger.On("HasUnlocked", mock.Anything, "reader", int64(10)).Return(true, nil)

	txn, err := svc.UnlockChapter(context.Background(), "reader", 10, 50)

	assert.ErrorIs(t, err, ErrAlreadyUnlocked)
	assert.Nil(t, txn)
}

func TestUnlockChapter_InsufficientFunds(t *testing.T) {
	mockLedger := new(MockLedgerRepository)
	mockUsers := new(MockUserRepository)
	mockChapters := new(MockChapterRepository)
	mockNovels := new(MockNovelRepository)
	svc := NewLedgerService(mockLedger, mockUsers, mockChapters, mockNovels, 0.7)

	chapter := paidChapter()
	mockUsers.On("FindByID", mock.Anything, "reader").Return(&models.User{ID: "reader"}, nil)
	mockChapters.On("GetByID", mock.Anything, int64(10)).Return(chapter, nil)
	mockLedger.On("HasUnlocked", mock.Anything, "reader", int64(10)).Return(false, nil)
	mockNovels.On("GetByID", mock.Anything, int64(5)).Return(&models.Novel{ID: 5, AuthorID: "writer"}, nil)
	mockLedger.On("Unlock", mock.Anything, "reader", chapter, "writer", 0.7).
		Return(nil, repository.ErrInsufficientBalance)

	txn, err := svc.UnlockChapter(context.Background(), "reader", 10, 50)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, txn)
}

func TestUnlockChapter_ChapterNotFound(t *testing.T) {
	mockLedger := new(MockLedgerRepository)
	mockUsers := new(MockUserRepository)
	mockChapters := new(MockChapterRepository)
	svc := NewLedgerService(mockLedger, mockUsers, mockChapters, new(MockNovelRepository), 0.7)

	mockUsers.On("FindByID", mock.Anything, "reader").Return(&models.User{ID: "reader"}, nil)
	mockChapters.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	txn, err := svc.UnlockChapter(context.Background(), "reader", 99, 50)

	assert.ErrorIs(t, err, ErrChapterNotFound)
	assert.Nil(t, txn)
}

// conditionalDebitLedger emulates the repository's unlock transaction:
// the balance only moves when it covers the cost, and a second unlock
// row for the same chapter fails the whole thing, the way the SQL
// UPDATE ... WHERE coins_balance >= cost and the partial unique index
// behave. HasUnlocked always answers with a stale negative so callers
// cannot lean on the pre-check.
type conditionalDebitLedger struct {
	repository.LedgerRepository

	// when set, HasUnlocked parks until every caller has passed it
	precheckBarrier *sync.WaitGroup

	mu       sync.Mutex
	balance  float64
	unlocked map[int64]bool
}

func (f *conditionalDebitLedger) HasUnlocked(ctx context.Context, userID string, chapterID int64) (bool, error) {
	if f.precheckBarrier != nil {
		f.precheckBarrier.Done()
		f.precheckBarrier.Wait()
	}
	return false, nil
}

func (f *conditionalDebitLedger) Unlock(ctx context.Context, userID string, chapter *models.Chapter, authorID string, authorShare float64) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.balance < chapter.CoinCost {
		return nil, repository.ErrInsufficientBalance
	}
	if f.unlocked[chapter.ID] {
		return nil, repository.ErrAlreadyUnlocked
	}
	if f.unlocked == nil {
		f.unlocked = map[int64]bool{}
	}
	f.unlocked[chapter.ID] = true
	f.balance -= chapter.CoinCost
	return &models.Transaction{UserID: userID, Type: models.TxUnlockChapter, Amount: -chapter.CoinCost}, nil
}

func TestUnlockChapter_ConcurrentExactBalance_OneWinner(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockChapters := new(MockChapterRepository)
	mockNovels := new(MockNovelRepository)

	chapter := paidChapter()
	mockUsers.On("FindByID", mock.Anything, "reader").Return(&models.User{ID: "reader"}, nil)
	mockChapters.On("GetByID", mock.Anything, int64(10)).Return(chapter, nil)
	mockNovels.On("GetByID", mock.Anything, int64(5)).Return(&models.Novel{ID: 5, AuthorID: "writer"}, nil)

	// Balance covers exactly one unlock.
	ledger := &conditionalDebitLedger{balance: chapter.CoinCost}
	svc := NewLedgerService(ledger, mockUsers, mockChapters, mockNovels, 0.7)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.UnlockChapter(context.Background(), "reader", 10, chapter.CoinCost)
		}(i)
	}
	wg.Wait()

	successes, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case err == ErrInsufficientFunds:
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 0.0, ledger.balance)
}

// Two unlocks of the same chapter race past the already-unlocked read
// with money to spare. The unique unlock row must turn the loser into a
// conflict, charging the user exactly once.
func TestUnlockChapter_ConcurrentDuplicate_ChargedOnce(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockChapters := new(MockChapterRepository)
	mockNovels := new(MockNovelRepository)

	chapter := paidChapter()
	mockUsers.On("FindByID", mock.Anything, "reader").Return(&models.User{ID: "reader"}, nil)
	mockChapters.On("GetByID", mock.Anything, int64(10)).Return(chapter, nil)
	mockNovels.On("GetByID", mock.Anything, int64(5)).Return(&models.Novel{ID: 5, AuthorID: "writer"}, nil)

	barrier := &sync.WaitGroup{}
	barrier.Add(2)
	ledger := &conditionalDebitLedger{balance: 2 * chapter.CoinCost, precheckBarrier: barrier}
	svc := NewLedgerService(ledger, mockUsers, mockChapters, mockNovels, 0.7)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.UnlockChapter(context.Background(), "reader", 10, chapter.CoinCost)
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case err == ErrAlreadyUnlocked:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, chapter.CoinCost, ledger.balance)
}

func TestGetBalance_UnknownUser(t *testing.T) {
	mockLedger := new(MockLedgerRepository)
	svc := NewLedgerService(mockLedger, new(MockUserRepository), new(MockChapterRepository), new(MockNovelRepository), 0.7)

	mockLedger.On("GetBalance", mock.Anything, "ghost").Return(0.0, gorm.ErrRecordNotFound)

	_, err := svc.GetBalance(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetTransactions_Paginates(t *testing.T) {
	mockLedger := new(MockLedgerRepository)
	svc := NewLedgerService(mockLedger, new(MockUserRepository), new(MockChapterRepository), new(MockNovelRepository), 0.7)

	txns := []models.Transaction{
		{ID: 2, UserID: "u1", Type: models.TxUnlockChapter, Amount: -50},
		{ID: 1, UserID: "u1", Type: models.TxPurchaseCoins, Amount: 100},
	}
	mockLedger.On("GetByUser", mock.Anything, "u1", 1, 20).Return(txns, int64(42), nil)

	page, err := svc.GetTransactions(context.Background(), "u1", 1, 20)

	assert.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 42, page.Total)
	assert.Equal(t, 3, page.TotalPages)
}

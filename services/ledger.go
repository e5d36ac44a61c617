package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/FTCService/JSJREWARD/database"
	"github.com/FTCService/JSJREWARD/models"
)

var (
	ErrNoActiveRule       = errors.New("no active reward rule found for this member")
	ErrInsufficientPoints = errors.New("insufficient points for redemption")
	ErrLedgerNotFound     = errors.New("no cumulative points found")
)

// LedgerService owns every mutation of cumulative_points. Earn and redeem each
// run as one database transaction: the transaction row and the balance update
// commit together or not at all.
type LedgerService struct {
	db       *database.DB
	notifier Notifier
}

func NewLedgerService(db *database.DB, notifier Notifier) *LedgerService {
	return &LedgerService{db: db, notifier: notifier}
}

// CalculatePoints converts a purchase amount into points under a reward rule.
// Fractional points are truncated, never rounded up.
//
// percentage and purchase_value_to_points intentionally share the same
// arithmetic; the notional value only gates whether the latter applies at all.
// That matches the deployed rule behavior and must not be "corrected" here.
func CalculatePoints(ruleType string, notionalValue, ruleValue, purchaseAmount float64) int64 {
	switch ruleType {
	case models.RuleTypePercentage:
		return int64(purchaseAmount * ruleValue / 100)
	case models.RuleTypePurchaseValueToPoints:
		if notionalValue > 0 {
			return int64(purchaseAmount * ruleValue / 100)
		}
		return 0
	case models.RuleTypeFlat:
		return int64(ruleValue)
	default:
		return 0
	}
}

// RequiredPoints resolves how many points a redemption deducts. A configured
// milestone always wins over the caller-supplied amount, so the standalone
// redeem endpoint and the transaction endpoint can never disagree.
func RequiredPoints(milestone, supplied int64) int64 {
	if milestone > 0 {
		return milestone
	}
	return supplied
}

// EarnResult is returned from a successful earn transaction.
type EarnResult struct {
	Transaction models.CardTransaction  `json:"transaction"`
	Ledger      models.CumulativePoints `json:"cumulative_points"`
}

// RedeemResult is returned from a successful redemption.
type RedeemResult struct {
	Transaction models.CardTransaction  `json:"transaction"`
	Ledger      models.CumulativePoints `json:"cumulative_points"`
}

// activeRule is the reward rule joined through the member's active enrollment.
type activeRule struct {
	RuleType      string
	NotionalValue float64
	RuleValue     float64
	Milestone     int64
}

func (s *LedgerService) loadActiveRule(ctx context.Context, tx *sql.Tx, businessID int64, cardNumber string) (*activeRule, error) {
	var rule activeRule
	err := tx.QueryRowContext(ctx, `
		SELECT r.rule_type, r.notional_value, r.rule_value, r.milestone
		FROM business_members bm
		JOIN reward_rules r ON bm.rule_id = r.id
		WHERE bm.business_id = $1 AND bm.card_number = $2 AND bm.is_active`,
		businessID, cardNumber,
	).Scan(&rule.RuleType, &rule.NotionalValue, &rule.RuleValue, &rule.Milestone)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active rule: %w", err)
	}
	return &rule, nil
}

// lockLedgerRow get-or-creates the cumulative_points row and locks it for the
// rest of the transaction. Concurrent earn/redeem calls for the same
// (card, business) pair serialize here.
func (s *LedgerService) lockLedgerRow(ctx context.Context, tx *sql.Tx, businessID int64, cardNumber string) (*models.CumulativePoints, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO cumulative_points (card_number, business_id)
		VALUES ($1, $2)
		ON CONFLICT (card_number, business_id) DO NOTHING`,
		cardNumber, businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cumulative points: %w", err)
	}

	var ledger models.CumulativePoints
	err = tx.QueryRowContext(ctx, `
		SELECT card_number, business_id, lifetime_earned_points, lifetime_redeemed_points,
		       current_balance, total_purchase_amount, last_updated
		FROM cumulative_points
		WHERE card_number = $1 AND business_id = $2
		FOR UPDATE`,
		cardNumber, businessID,
	).Scan(&ledger.CardNumber, &ledger.BusinessID, &ledger.LifetimeEarnedPoints,
		&ledger.LifetimeRedeemedPoints, &ledger.CurrentBalance, &ledger.TotalPurchaseAmount,
		&ledger.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cumulative points: %w", err)
	}
	return &ledger, nil
}

// RecordEarn records a purchase and credits the computed points. A card with no
// active enrollment still gets a transaction row with zero points; the purchase
// happened, there is just no rule to apply.
func (s *LedgerService) RecordEarn(ctx context.Context, businessID int64, cardNumber string, purchaseAmount float64) (*EarnResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback()

	rule, err := s.loadActiveRule(ctx, tx, businessID, cardNumber)
	if err != nil {
		return nil, err
	}

	var points int64
	if rule != nil {
		points = CalculatePoints(rule.RuleType, rule.NotionalValue, rule.RuleValue, purchaseAmount)
	}

	if _, err := s.lockLedgerRow(ctx, tx, businessID, cardNumber); err != nil {
		return nil, err
	}

	var txn models.CardTransaction
	txn.BusinessID = businessID
	txn.CardNumber = cardNumber
	txn.PurchaseAmount = purchaseAmount
	txn.Points = points
	txn.TransactionType = models.TransactionTypeEarned
	err = tx.QueryRowContext(ctx, `
		INSERT INTO card_transactions (business_id, card_number, purchase_amount, points, transaction_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, transaction_date`,
		businessID, cardNumber, purchaseAmount, points, models.TransactionTypeEarned,
	).Scan(&txn.ID, &txn.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("transaction insert failed: %w", err)
	}

	var ledger models.CumulativePoints
	err = tx.QueryRowContext(ctx, `
		UPDATE cumulative_points
		SET lifetime_earned_points = lifetime_earned_points + $1,
		    current_balance = current_balance + $1,
		    total_purchase_amount = total_purchase_amount + $2,
		    last_updated = now()
		WHERE card_number = $3 AND business_id = $4
		RETURNING card_number, business_id, lifetime_earned_points, lifetime_redeemed_points,
		          current_balance, total_purchase_amount, last_updated`,
		points, purchaseAmount, cardNumber, businessID,
	).Scan(&ledger.CardNumber, &ledger.BusinessID, &ledger.LifetimeEarnedPoints,
		&ledger.LifetimeRedeemedPoints, &ledger.CurrentBalance, &ledger.TotalPurchaseAmount,
		&ledger.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("cumulative points update failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("tx commit failed: %w", err)
	}

	transactionsTotal.WithLabelValues(models.TransactionTypeEarned).Inc()
	pointsIssuedTotal.Add(float64(points))

	if s.notifier != nil {
		s.notifier.PointsEarned(cardNumber, businessID, points, ledger.CurrentBalance)
	}

	return &EarnResult{Transaction: txn, Ledger: ledger}, nil
}

// Redeem deducts points against the member's milestone. The balance check and
// the decrement run under the ledger row lock, so two racing redemptions
// against a balance that covers only one cannot both succeed.
func (s *LedgerService) Redeem(ctx context.Context, businessID int64, cardNumber string, suppliedPoints int64) (*RedeemResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback()

	rule, err := s.loadActiveRule(ctx, tx, businessID, cardNumber)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrNoActiveRule
	}

	required := RequiredPoints(rule.Milestone, suppliedPoints)

	ledger, err := s.lockLedgerRow(ctx, tx, businessID, cardNumber)
	if err != nil {
		return nil, err
	}

	if ledger.CurrentBalance < required {
		redemptionsRejected.Inc()
		return nil, ErrInsufficientPoints
	}

	var txn models.CardTransaction
	txn.BusinessID = businessID
	txn.CardNumber = cardNumber
	txn.Points = required
	txn.TransactionType = models.TransactionTypeRedeemed
	err = tx.QueryRowContext(ctx, `
		INSERT INTO card_transactions (business_id, card_number, purchase_amount, points, transaction_type)
		VALUES ($1, $2, 0, $3, $4)
		RETURNING id, transaction_date`,
		businessID, cardNumber, required, models.TransactionTypeRedeemed,
	).Scan(&txn.ID, &txn.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("transaction insert failed: %w", err)
	}

	var updated models.CumulativePoints
	err = tx.QueryRowContext(ctx, `
		UPDATE cumulative_points
		SET lifetime_redeemed_points = lifetime_redeemed_points + $1,
		    current_balance = current_balance - $1,
		    last_updated = now()
		WHERE card_number = $2 AND business_id = $3
		RETURNING card_number, business_id, lifetime_earned_points, lifetime_redeemed_points,
		          current_balance, total_purchase_amount, last_updated`,
		required, cardNumber, businessID,
	).Scan(&updated.CardNumber, &updated.BusinessID, &updated.LifetimeEarnedPoints,
		&updated.LifetimeRedeemedPoints, &updated.CurrentBalance, &updated.TotalPurchaseAmount,
		&updated.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("cumulative points update failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("tx commit failed: %w", err)
	}

	transactionsTotal.WithLabelValues(models.TransactionTypeRedeemed).Inc()
	pointsRedeemedTotal.Add(float64(required))

	if s.notifier != nil {
		s.notifier.PointsRedeemed(cardNumber, businessID, required, updated.CurrentBalance)
	}

	return &RedeemResult{Transaction: txn, Ledger: updated}, nil
}

// GetLedger returns the cumulative points row for a (card, business) pair.
func (s *LedgerService) GetLedger(ctx context.Context, businessID int64, cardNumber string) (*models.CumulativePoints, error) {
	var ledger models.CumulativePoints
	err := s.db.QueryRowContext(ctx, `
		SELECT card_number, business_id, lifetime_earned_points, lifetime_redeemed_points,
		       current_balance, total_purchase_amount, last_updated
		FROM cumulative_points
		WHERE card_number = $1 AND business_id = $2`,
		cardNumber, businessID,
	).Scan(&ledger.CardNumber, &ledger.BusinessID, &ledger.LifetimeEarnedPoints,
		&ledger.LifetimeRedeemedPoints, &ledger.CurrentBalance, &ledger.TotalPurchaseAmount,
		&ledger.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrLedgerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cumulative points: %w", err)
	}
	return &ledger, nil
}

// ListTransactions returns a card's transactions for a business, newest first.
// typeFilter may be empty or one of the transaction type constants.
func (s *LedgerService) ListTransactions(ctx context.Context, businessID int64, cardNumber, typeFilter string) ([]models.CardTransaction, error) {
	query := `
		SELECT id, business_id, card_number, purchase_amount, points, transaction_type, transaction_date
		FROM card_transactions
		WHERE card_number = $1 AND business_id = $2`
	args := []interface{}{cardNumber, businessID}

	if typeFilter == models.TransactionTypeEarned || typeFilter == models.TransactionTypeRedeemed {
		query += ` AND transaction_type = $3`
		args = append(args, typeFilter)
	}
	query += ` ORDER BY transaction_date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.CardTransaction
	for rows.Next() {
		var txn models.CardTransaction
		if err := rows.Scan(&txn.ID, &txn.BusinessID, &txn.CardNumber, &txn.PurchaseAmount,
			&txn.Points, &txn.TransactionType, &txn.TransactionDate); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}

// GetTransaction returns a single transaction scoped to a business.
func (s *LedgerService) GetTransaction(ctx context.Context, businessID, transactionID int64) (*models.CardTransaction, error) {
	var txn models.CardTransaction
	err := s.db.QueryRowContext(ctx, `
		SELECT id, business_id, card_number, purchase_amount, points, transaction_type, transaction_date
		FROM card_transactions
		WHERE id = $1 AND business_id = $2`,
		transactionID, businessID,
	).Scan(&txn.ID, &txn.BusinessID, &txn.CardNumber, &txn.PurchaseAmount,
		&txn.Points, &txn.TransactionType, &txn.TransactionDate)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/FTCService/JSJREWARD/database"
	"github.com/FTCService/JSJREWARD/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// fakeSSOServer stands in for the central SSO/member-directory service.
// Business tokens look like "biz-<id>"; member tokens like "member-<card>".
// Every card resolves to itself as primary.
func fakeSSOServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	token := func(r *http.Request) string {
		return strings.TrimPrefix(r.Header.Get("Authorization"), "Token ")
	}

	mux.HandleFunc("/business/verify-token/", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(strings.TrimPrefix(token(r), "biz-"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"business_id": id, "business_name": fmt.Sprintf("Business %d", id)})
	})
	mux.HandleFunc("/member/verify-token/", func(w http.ResponseWriter, r *http.Request) {
		card, ok := strings.CutPrefix(token(r), "member-")
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"mbrcardno": card, "full_name": "Test Member"})
	})
	mux.HandleFunc("/get-primary-card/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":             true,
			"primary_card_number": r.URL.Query().Get("card_number"),
		})
	})
	// Mobile directory: mobiles of the form "mob-<card>" resolve to that card
	mux.HandleFunc("/member-details/", func(w http.ResponseWriter, r *http.Request) {
		card, ok := strings.CutPrefix(r.URL.Query().Get("mobile_number"), "mob-")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"mbrcardno": card, "full_name": "Test Member",
			"mobile_number": r.URL.Query().Get("mobile_number"), "email": "member@example.com",
		})
	})
	mux.HandleFunc("/cardno/member-details/", func(w http.ResponseWriter, r *http.Request) {
		card := r.URL.Query().Get("card_number")
		json.NewEncoder(w).Encode(map[string]any{
			"mbrcardno": card, "full_name": "Test Member",
			"mobile_number": "9876543210", "email": "member@example.com",
		})
	})
	mux.HandleFunc("/business/details/", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.URL.Query().Get("business_id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"business_id": id, "business_name": fmt.Sprintf("Business %d", id)})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func setupAPITest(t *testing.T) (*gin.Engine, *database.DB) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database-backed tests")
	}

	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, db.InitializeTables())
	t.Cleanup(func() { db.Close() })

	sso := fakeSSOServer(t)
	authServer := services.NewAuthServerClient(sso.URL)
	InitializeHandlers(db, services.NewLedgerService(db, nil), authServer, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router)
	return router, db
}

var apiBizCounter int64

func apiTestBusinessID() int64 {
	return time.Now().UnixNano()%1_000_000_000 + atomic.AddInt64(&apiBizCounter, 1)*1_000_000_000
}

func apiTestCardNumber() string {
	return fmt.Sprintf("8%012d", time.Now().UnixNano()%1_000_000_000_000)
}

// doJSON sends a request through the router and decodes the JSON body
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var decoded map[string]any
	if len(recorder.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder.Code, decoded
}

func bizToken(bizID int64) string {
	return fmt.Sprintf("biz-%d", bizID)
}

func TestRewardRuleLifecycle(t *testing.T) {
	router, _ := setupAPITest(t)
	token := bizToken(apiTestBusinessID())

	// First rule becomes the default
	code, body := doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", token, gin.H{
		"rule_type": "percentage", "rule_value": 10.0, "validity_years": 2,
	})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, true, body["success"])
	first := body["data"].(map[string]any)
	require.Equal(t, true, first["is_default"])
	require.Equal(t, float64(1), first["sequence_in_business"])

	// Second rule of a different type is not default
	code, body = doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", token, gin.H{
		"rule_type": "flat", "rule_value": 50.0, "validity_years": 2, "milestone": 500,
	})
	require.Equal(t, http.StatusCreated, code)
	second := body["data"].(map[string]any)
	require.Equal(t, false, second["is_default"])
	require.Equal(t, float64(2), second["sequence_in_business"])

	// Same type again is rejected
	code, body = doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", token, gin.H{
		"rule_type": "percentage", "rule_value": 5.0, "validity_years": 1,
	})
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, false, body["success"])

	// Unknown type and out-of-range validity are rejected
	code, _ = doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", token, gin.H{
		"rule_type": "tiered", "validity_years": 2,
	})
	require.Equal(t, http.StatusBadRequest, code)
	code, _ = doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", token, gin.H{
		"rule_type": "flat", "validity_years": 0,
	})
	require.Equal(t, http.StatusBadRequest, code)

	// Promote the second rule; exactly one default remains
	secondID := strconv.FormatFloat(second["id"].(float64), 'f', -1, 64)
	code, _ = doJSON(t, router, http.MethodPost, "/reward/reward-rule/"+secondID+"/set-default/", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, body = doJSON(t, router, http.MethodGet, "/reward/business-reward-rules/", token, nil)
	require.Equal(t, http.StatusOK, code)
	rules := body["data"].([]any)
	require.Len(t, rules, 2)
	var defaults int
	for _, raw := range rules {
		if raw.(map[string]any)["is_default"] == true {
			defaults++
		}
	}
	require.Equal(t, 1, defaults)

	// Partial update keeps unset fields
	code, body = doJSON(t, router, http.MethodPut, "/reward/reward-rules/"+secondID+"/details/", token, gin.H{
		"milestone": 250,
	})
	require.Equal(t, http.StatusOK, code)
	updated := body["data"].(map[string]any)
	require.Equal(t, float64(250), updated["milestone"])
	require.Equal(t, float64(50), updated["rule_value"])

	code, _ = doJSON(t, router, http.MethodDelete, "/reward/reward-rules/"+secondID+"/details/", token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, router, http.MethodGet, "/reward/reward-rules/"+secondID+"/details/", token, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestEnrollmentAndActiveCheck(t *testing.T) {
	router, _ := setupAPITest(t)
	bizID := apiTestBusinessID()
	token := bizToken(bizID)
	card := apiTestCardNumber()

	code, body := doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", token, gin.H{
		"rule_type": "flat", "rule_value": 50.0, "validity_years": 2,
	})
	require.Equal(t, http.StatusCreated, code)
	ruleID := int64(body["data"].(map[string]any)["id"].(float64))

	code, body = doJSON(t, router, http.MethodPost, "/reward/new-member/", token, gin.H{
		"card_number": card, "rule_id": ruleID,
	})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, true, body["success"])
	member := body["data"].(map[string]any)
	require.Equal(t, card, member["card_number"])
	require.Equal(t, true, member["is_active"])

	// A second active membership for the same card is rejected
	code, _ = doJSON(t, router, http.MethodPost, "/reward/new-member/", token, gin.H{
		"card_number": card, "rule_id": ruleID,
	})
	require.Equal(t, http.StatusConflict, code)

	code, body = doJSON(t, router, http.MethodGet, "/reward/check-member-active/?card_number="+card, token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["success"])

	// Unknown card is simply not registered
	code, body = doJSON(t, router, http.MethodGet, "/reward/check-member-active/?card_number="+apiTestCardNumber(), token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, false, body["success"])
	require.Equal(t, false, body["is_active"])

	// Another business sees the card as taken, not as unregistered
	otherToken := bizToken(apiTestBusinessID())
	code, body = doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", otherToken, gin.H{
		"rule_type": "flat", "rule_value": 10.0, "validity_years": 1,
	})
	require.Equal(t, http.StatusCreated, code)
	code, body = doJSON(t, router, http.MethodGet, "/reward/check-member-active/?card_number="+card, otherToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, false, body["success"])
	require.Equal(t, true, body["belongs_to_other_business"])
}

func TestCheckMemberActiveByMobile(t *testing.T) {
	router, _ := setupAPITest(t)
	bizID := apiTestBusinessID()
	token := bizToken(bizID)
	card := apiTestCardNumber()

	code, body := doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", token, gin.H{
		"rule_type": "flat", "rule_value": 25.0, "validity_years": 2,
	})
	require.Equal(t, http.StatusCreated, code)
	ruleID := int64(body["data"].(map[string]any)["id"].(float64))

	code, _ = doJSON(t, router, http.MethodPost, "/reward/new-member/", token, gin.H{
		"card_number": card, "rule_id": ruleID,
	})
	require.Equal(t, http.StatusCreated, code)

	// The mobile resolves through the directory to the enrolled card
	code, body = doJSON(t, router, http.MethodGet, "/reward/member-active/by-mobile-no/?mobile_number=mob-"+card, token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["success"])
	require.Equal(t, card, body["data"].(map[string]any)["card_number"])

	// A mobile the directory does not know
	code, body = doJSON(t, router, http.MethodGet, "/reward/member-active/by-mobile-no/?mobile_number=9999999999", token, nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, false, body["success"])

	code, _ = doJSON(t, router, http.MethodGet, "/reward/member-active/by-mobile-no/", token, nil)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestEarnAndRedeemFlow(t *testing.T) {
	router, _ := setupAPITest(t)
	bizID := apiTestBusinessID()
	token := bizToken(bizID)
	card := apiTestCardNumber()

	code, body := doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", token, gin.H{
		"rule_type": "flat", "rule_value": 50.0, "validity_years": 2, "milestone": 500,
	})
	require.Equal(t, http.StatusCreated, code)
	ruleID := int64(body["data"].(map[string]any)["id"].(float64))

	code, _ = doJSON(t, router, http.MethodPost, "/reward/new-member/", token, gin.H{
		"card_number": card, "rule_id": ruleID,
	})
	require.Equal(t, http.StatusCreated, code)

	// Ten purchases at 1000 each earn one milestone's worth of points
	for i := 0; i < 10; i++ {
		code, body = doJSON(t, router, http.MethodPost, "/reward/transactions/", token, gin.H{
			"card_number": card, "purchase_amount": 1000.0,
		})
		require.Equal(t, http.StatusCreated, code)
		txn := body["transaction"].(map[string]any)
		require.Equal(t, float64(50), txn["points"])
		require.Equal(t, "Points_Earned", txn["transaction_type"])
	}
	snapshot := body["cumulative_points"].(map[string]any)
	require.Equal(t, float64(500), snapshot["current_balance"])
	require.Equal(t, float64(10000), snapshot["total_purchase_amount"])

	// Redemption deducts the milestone amount
	code, body = doJSON(t, router, http.MethodPost, "/reward/redeem-points/", token, gin.H{
		"card_number": card,
	})
	require.Equal(t, http.StatusCreated, code)
	txn := body["transaction"].(map[string]any)
	require.Equal(t, float64(500), txn["points"])
	require.Equal(t, "Points_Redeemed", txn["transaction_type"])
	snapshot = body["cumulative_points"].(map[string]any)
	require.Equal(t, float64(0), snapshot["current_balance"])

	// Nothing left to redeem
	code, body = doJSON(t, router, http.MethodPost, "/reward/redeem-points/", token, gin.H{
		"card_number": card,
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	require.Equal(t, false, body["success"])

	// History shows all eleven transactions plus the snapshot
	code, body = doJSON(t, router, http.MethodGet, "/reward/transactions/"+card, token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["transactions"].([]any), 11)

	code, body = doJSON(t, router, http.MethodGet, "/reward/transactions/"+card+"?transaction_type=Points_Redeemed", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["transactions"].([]any), 1)

	code, body = doJSON(t, router, http.MethodGet, "/reward/cumulative-points/"+card, token, nil)
	require.Equal(t, http.StatusOK, code)
	snapshot = body["cumulative_points"].(map[string]any)
	require.Equal(t, float64(0), snapshot["current_balance"])
	require.Equal(t, float64(500), snapshot["lifetime_earned_points"])
	require.Equal(t, float64(500), snapshot["lifetime_redeemed_points"])
}

func TestRedeemWithoutMembership(t *testing.T) {
	router, _ := setupAPITest(t)
	token := bizToken(apiTestBusinessID())

	code, body := doJSON(t, router, http.MethodPost, "/reward/redeem-points/", token, gin.H{
		"card_number": apiTestCardNumber(),
	})
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, false, body["success"])
}

func TestRuleDeleteCascadesMemberships(t *testing.T) {
	router, db := setupAPITest(t)
	bizID := apiTestBusinessID()
	token := bizToken(bizID)
	card := apiTestCardNumber()

	code, body := doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", token, gin.H{
		"rule_type": "percentage", "rule_value": 10.0, "validity_years": 2,
	})
	require.Equal(t, http.StatusCreated, code)
	ruleID := int64(body["data"].(map[string]any)["id"].(float64))
	ruleIDStr := strconv.FormatInt(ruleID, 10)

	code, _ = doJSON(t, router, http.MethodPost, "/reward/new-member/", token, gin.H{
		"card_number": card, "rule_id": ruleID,
	})
	require.Equal(t, http.StatusCreated, code)

	code, _ = doJSON(t, router, http.MethodDelete, "/reward/reward-rules/"+ruleIDStr+"/details/", token, nil)
	require.Equal(t, http.StatusOK, code)

	var remaining int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM business_members WHERE business_id = $1`, bizID).Scan(&remaining))
	require.Equal(t, 0, remaining, "memberships must go with their rule")
}

func TestJoinRequestApprovalFlow(t *testing.T) {
	router, db := setupAPITest(t)
	bizID := apiTestBusinessID()
	token := bizToken(bizID)
	card := apiTestCardNumber()
	memberToken := "member-" + card

	code, _ := doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", token, gin.H{
		"rule_type": "flat", "rule_value": 25.0, "validity_years": 2,
	})
	require.Equal(t, http.StatusCreated, code)

	code, body := doJSON(t, router, http.MethodPost, "/member/reward/member/scan-qr/", memberToken, gin.H{
		"business_id": bizID,
	})
	require.Equal(t, http.StatusCreated, code)
	requestID := body["data"].(map[string]any)["id"].(string)

	code, body = doJSON(t, router, http.MethodGet, "/reward/join-requests/", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["data"].([]any), 1)

	// Approval with no rule_id falls back to the business default rule
	code, body = doJSON(t, router, http.MethodPut, "/reward/join-requests/"+requestID, token, gin.H{
		"approve": true,
	})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["success"])
	require.Equal(t, card, body["data"].(map[string]any)["card_number"])

	// The enrollment and the status flip landed together
	var members, pending int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM business_members WHERE business_id = $1 AND card_number = $2 AND is_active`,
		bizID, card).Scan(&members))
	require.Equal(t, 1, members)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM join_requests WHERE business_id = $1 AND status = 'pending'`,
		bizID).Scan(&pending))
	require.Equal(t, 0, pending)

	// A decided request cannot be decided again
	code, _ = doJSON(t, router, http.MethodPut, "/reward/join-requests/"+requestID, token, gin.H{
		"approve": true,
	})
	require.Equal(t, http.StatusConflict, code)
}

func TestSurveySubmission(t *testing.T) {
	router, _ := setupAPITest(t)
	phone := fmt.Sprintf("7%09d", time.Now().UnixNano()%1_000_000_000)

	// First submission with phone and email earns a coupon
	code, body := doJSON(t, router, http.MethodPost, "/survey/feedback/", "", gin.H{
		"name":  "Asha Rao",
		"email": "asha@example.com",
		"phone": phone,
		"questions": gin.H{
			"q1": gin.H{"question": "How was your visit?", "answer": "Great"},
		},
	})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, true, body["success"])
	coupon, ok := body["data"].(map[string]any)["coupon_code"].(string)
	require.True(t, ok, "first submission must carry a coupon code")
	require.Contains(t, coupon, "COUPON-")
	require.Contains(t, body["message"], coupon)

	// Repeat submission from the same phone gets no coupon
	code, body = doJSON(t, router, http.MethodPost, "/survey/feedback/", "", gin.H{
		"email": "asha@example.com",
		"phone": phone,
	})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "Thank you for re-taking the survey.", body["message"])
	require.Nil(t, body["data"].(map[string]any)["coupon_code"])

	// Anonymous submission is stored without a coupon
	code, body = doJSON(t, router, http.MethodPost, "/survey/feedback/", "", gin.H{
		"questions": gin.H{"q1": gin.H{"answer": "Fine"}},
	})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "Thank you for submitting the survey.", body["message"])
	require.Nil(t, body["data"].(map[string]any)["coupon_code"])
}

func TestRewardRuleValidation(t *testing.T) {
	// Validation runs before any database access, so these need no database
	sso := fakeSSOServer(t)
	InitializeHandlers(nil, nil, services.NewAuthServerClient(sso.URL), nil)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router)
	token := bizToken(apiTestBusinessID())

	for name, payload := range map[string]gin.H{
		"negative rule value":     {"rule_type": "flat", "rule_value": -50.0, "validity_years": 2},
		"negative notional value": {"rule_type": "purchase_value_to_points", "notional_value": -1.0, "validity_years": 2},
		"negative milestone":      {"rule_type": "flat", "milestone": -10, "validity_years": 2},
		"unknown rule type":       {"rule_type": "tiered", "validity_years": 2},
		"validity too small":      {"rule_type": "flat", "validity_years": 0},
		"validity too large":      {"rule_type": "flat", "validity_years": 101},
	} {
		code, body := doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", token, payload)
		require.Equal(t, http.StatusBadRequest, code, name)
		require.Equal(t, false, body["success"], name)
	}

	// The same bounds hold on update
	code, _ := doJSON(t, router, http.MethodPut, "/reward/reward-rules/1/details/", token, gin.H{
		"rule_value": -5.0,
	})
	require.Equal(t, http.StatusBadRequest, code)
	code, _ = doJSON(t, router, http.MethodPut, "/reward/reward-rules/1/details/", token, gin.H{
		"notional_value": -5.0,
	})
	require.Equal(t, http.StatusBadRequest, code)
}

func TestUnauthenticatedRequests(t *testing.T) {
	router, _ := setupAPITest(t)

	code, body := doJSON(t, router, http.MethodGet, "/reward/business-reward-rules/", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, false, body["success"])

	code, _ = doJSON(t, router, http.MethodGet, "/reward/business-reward-rules/", "not-a-real-token", nil)
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = doJSON(t, router, http.MethodGet, "/member/reward/business-store/", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestMemberPortalFlow(t *testing.T) {
	router, _ := setupAPITest(t)
	bizID := apiTestBusinessID()
	token := bizToken(bizID)
	card := apiTestCardNumber()
	memberToken := "member-" + card

	code, body := doJSON(t, router, http.MethodPost, "/reward/business-reward-rules/", token, gin.H{
		"rule_type": "flat", "rule_value": 100.0, "validity_years": 2, "milestone": 300,
	})
	require.Equal(t, http.StatusCreated, code)
	ruleID := int64(body["data"].(map[string]any)["id"].(float64))

	code, _ = doJSON(t, router, http.MethodPost, "/reward/new-member/", token, gin.H{
		"card_number": card, "rule_id": ruleID,
	})
	require.Equal(t, http.StatusCreated, code)

	for i := 0; i < 4; i++ {
		code, _ = doJSON(t, router, http.MethodPost, "/reward/transactions/", token, gin.H{
			"card_number": card, "purchase_amount": 200.0,
		})
		require.Equal(t, http.StatusCreated, code)
	}

	// 400 points earned against a 300-point milestone: one achieved, eligible again at 600
	bizIDStr := strconv.FormatInt(bizID, 10)
	code, body = doJSON(t, router, http.MethodGet, "/member/reward/business-store/details/"+bizIDStr, token, nil)
	require.Equal(t, http.StatusUnauthorized, code, "business token must not open member routes")

	code, body = doJSON(t, router, http.MethodGet, "/member/reward/business-store/details/"+bizIDStr, memberToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, float64(400), body["current_balance"])
	require.Equal(t, float64(1), body["achieved_milestones"])
	require.Equal(t, float64(0), body["points_to_next_milestone"], "eligibility zeroes the distance to the next milestone")
	require.Equal(t, true, body["is_eligible"])
	rewardInfo := body["reward_info"].(map[string]any)
	require.Equal(t, "flat", rewardInfo["rule_type"])

	code, body = doJSON(t, router, http.MethodGet, "/member/reward/transactions/"+bizIDStr, memberToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["transactions"].([]any), 4)

	code, body = doJSON(t, router, http.MethodGet, "/member/reward/member-active/?business_id="+bizIDStr, memberToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["success"])
}

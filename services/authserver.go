package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	ErrUnauthenticated       = errors.New("authentication failed")
	ErrAuthServerUnreachable = errors.New("auth server unreachable, try again later")
)

// AuthServerClient talks to the external SSO / member-directory server. Every
// call is bounded by a short timeout; a timeout fails the enclosing operation
// before it touches any local state.
type AuthServerClient struct {
	BaseURL string
	client  *http.Client
}

func NewAuthServerClient(baseURL string) *AuthServerClient {
	return &AuthServerClient{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// BusinessPrincipal is the authenticated business behind a bearer token.
type BusinessPrincipal struct {
	BusinessID   int64  `json:"business_id"`
	BusinessName string `json:"business_name"`
}

// MemberPrincipal is the authenticated member behind a bearer token.
type MemberPrincipal struct {
	CardNumber string `json:"mbrcardno"`
	FullName   string `json:"full_name"`
}

// CardResolution is the outcome of resolving a scanned card to its primary.
type CardResolution struct {
	Success           bool   `json:"success"`
	PrimaryCardNumber string `json:"primary_card_number"`
	Message           string `json:"message"`
}

// MemberDetails is a member directory profile.
type MemberDetails struct {
	CardNumber   string `json:"mbrcardno"`
	FullName     string `json:"full_name"`
	MobileNumber string `json:"mobile_number"`
	Email        string `json:"email"`
}

// BusinessDetails is a business directory profile.
type BusinessDetails struct {
	BusinessID   int64  `json:"business_id"`
	BusinessName string `json:"business_name"`
}

func (c *AuthServerClient) get(path string, params url.Values, token string, out interface{}) (int, error) {
	reqURL := c.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, ErrAuthServerUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK && out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode auth server response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// VerifyBusinessToken resolves a business bearer token to its principal.
func (c *AuthServerClient) VerifyBusinessToken(token string) (*BusinessPrincipal, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var principal BusinessPrincipal
	status, err := c.get("/business/verify-token/", nil, token, &principal)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || principal.BusinessID == 0 {
		return nil, ErrUnauthenticated
	}
	return &principal, nil
}

// VerifyMemberToken resolves a member bearer token to its principal.
func (c *AuthServerClient) VerifyMemberToken(token string) (*MemberPrincipal, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var principal MemberPrincipal
	status, err := c.get("/member/verify-token/", nil, token, &principal)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || principal.CardNumber == "" {
		return nil, ErrUnauthenticated
	}
	return &principal, nil
}

// GetPrimaryCard resolves a scanned or secondary card number to the primary
// card it maps to for the given business. A success=false result means the card
// is not associated with the business at all.
func (c *AuthServerClient) GetPrimaryCard(cardNumber string, businessID int64) (*CardResolution, error) {
	params := url.Values{}
	params.Set("card_number", cardNumber)
	params.Set("business_id", strconv.FormatInt(businessID, 10))

	var resolution CardResolution
	status, err := c.get("/get-primary-card/", params, "", &resolution)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return &CardResolution{Success: false, Message: "Card is not associated with this business."}, nil
	}
	if resolution.Success && resolution.PrimaryCardNumber != "" {
		return &resolution, nil
	}
	if resolution.Message == "" {
		resolution.Message = "Card is not associated with this business."
	}
	resolution.Success = false
	return &resolution, nil
}

// GetMemberByCard looks up a member profile by card number. A nil result with
// nil error means the member does not exist.
func (c *AuthServerClient) GetMemberByCard(cardNumber string) (*MemberDetails, error) {
	params := url.Values{}
	params.Set("card_number", cardNumber)

	var details MemberDetails
	status, err := c.get("/cardno/member-details/", params, "", &details)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || details.CardNumber == "" {
		return nil, nil
	}
	return &details, nil
}

// GetMemberByMobile looks up a member profile by mobile number.
func (c *AuthServerClient) GetMemberByMobile(mobileNumber string) (*MemberDetails, error) {
	params := url.Values{}
	params.Set("mobile_number", mobileNumber)

	var details MemberDetails
	status, err := c.get("/member-details/", params, "", &details)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || details.CardNumber == "" {
		return nil, nil
	}
	return &details, nil
}

// GetBusinessByID looks up a business profile.
func (c *AuthServerClient) GetBusinessByID(businessID int64) (*BusinessDetails, error) {
	params := url.Values{}
	params.Set("business_id", strconv.FormatInt(businessID, 10))

	var details BusinessDetails
	status, err := c.get("/business/details/", params, "", &details)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || details.BusinessID == 0 {
		return nil, nil
	}
	return &details, nil
}

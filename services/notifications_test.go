package services

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendSMS(t *testing.T) {
	var gotQuery url.Values
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	ns := NewNotificationService(gateway.URL, "secret-pass", "", "", nil)

	err := ns.SendSMS("9876543210", "You earned 50 points")
	require.NoError(t, err)
	require.Equal(t, "publishMessage", gotQuery.Get("option"))
	require.Equal(t, "secret-pass", gotQuery.Get("passKey"))
	require.Equal(t, "9876543210", gotQuery.Get("phoneNumber"))
	require.Equal(t, "You earned 50 points", gotQuery.Get("customMessage"))
}

func TestSendSMSValidation(t *testing.T) {
	ns := NewNotificationService("http://gateway.invalid", "key", "", "", nil)
	require.Error(t, ns.SendSMS("", "message"))
	require.Error(t, ns.SendSMS("9876543210", ""))

	unconfigured := NewNotificationService("", "", "", "", nil)
	require.Error(t, unconfigured.SendSMS("9876543210", "message"))
}

func TestSendSMSGatewayFailure(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer gateway.Close()

	ns := NewNotificationService(gateway.URL, "key", "", "", nil)
	require.Error(t, ns.SendSMS("9876543210", "message"))
}

func TestSendEmail(t *testing.T) {
	var gotQuery url.Values
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	ns := NewNotificationService("", "", gateway.URL, "no-reply@jsjreward.in", nil)

	err := ns.SendEmail("asha@example.com", "Welcome", "<p>Hello</p>")
	require.NoError(t, err)
	require.Equal(t, "no-reply@jsjreward.in", gotQuery.Get("sender"))
	require.Equal(t, "asha@example.com", gotQuery.Get("recipient"))
	require.Equal(t, "Welcome", gotQuery.Get("subject"))
	require.Equal(t, "<p>Hello</p>", gotQuery.Get("body"))
}

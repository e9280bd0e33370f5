package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"vibemint/api/internal/middleware"
)

func walletRouter(required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/whoami", middleware.Wallet(required), func(c *gin.Context) {
		address, connected := middleware.WalletAddress(c)
		c.JSON(http.StatusOK, gin.H{"address": address, "connected": connected})
	})
	return engine
}

func TestWallet_Required(t *testing.T) {
	engine := walletRouter(true)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Wallet-Address", "0xAbCdEf1234567890aBcDeF1234567890abcdef12")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "0xAbCdEf1234567890aBcDeF1234567890abcdef12")
}

func TestWallet_Malformed(t *testing.T) {
	engine := walletRouter(false)

	for _, bad := range []string{"garbage", "0x123", "0xZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZ"} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("X-Wallet-Address", bad)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestWallet_OptionalAnonymous(t *testing.T) {
	engine := walletRouter(false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"connected":false`)
}

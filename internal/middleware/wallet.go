package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

// WalletHeader carries the connected wallet's address. Signing stays in the
// user's wallet; this service only needs to know who is acting.
const WalletHeader = "X-Wallet-Address"

const walletContextKey = "wallet_address"

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Wallet extracts and validates the caller's wallet address. When required
// is true, requests without a well-formed address are rejected; otherwise
// the address is optional and read endpoints work anonymously.
func Wallet(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		address := c.GetHeader(WalletHeader)

		if address == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "wallet not connected"})
				return
			}
			c.Next()
			return
		}

		if !addressPattern.MatchString(address) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed wallet address"})
			return
		}

		c.Set(walletContextKey, address)
		c.Next()
	}
}

// WalletAddress returns the validated address set by Wallet, if any.
func WalletAddress(c *gin.Context) (string, bool) {
	address := c.GetString(walletContextKey)
	return address, address != ""
}

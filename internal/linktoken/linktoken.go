// Package linktoken signs and verifies short-lived download links for ledger artifacts.
package linktoken

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"smartconv/internal/config"
	"smartconv/internal/domain"
)

const audience = "download"

// Location names the directory an artifact lives in.
type Location string

const (
	LocationUploads   Location = "uploads"
	LocationProcessed Location = "processed"
)

// Claims identifies one artifact on disk.
type Claims struct {
	jwt.RegisteredClaims
	RecordID uuid.UUID `json:"record_id"`
	Location Location  `json:"loc"`
	Filename string    `json:"file"`
}

// Link is an issued token together with its expiry.
type Link struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Signer issues and verifies download link tokens.
type Signer interface {
	Issue(recordID uuid.UUID, loc Location, filename string) (*Link, error)
	Verify(token string) (*Claims, error)
}

type signer struct {
	cfg config.DownloadConfig
	now func() time.Time
}

// NewSigner creates a Signer using HS256 with the configured secret.
func NewSigner(cfg config.DownloadConfig) Signer {
	return &signer{cfg: cfg, now: time.Now}
}

func (s *signer) Issue(recordID uuid.UUID, loc Location, filename string) (*Link, error) {
	if s.cfg.Secret == "" {
		return nil, fmt.Errorf("linktoken.Issue: empty signing secret")
	}
	switch loc {
	case LocationUploads, LocationProcessed:
	default:
		return nil, fmt.Errorf("linktoken.Issue: unknown location %q", loc)
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.Expiry)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   recordID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{audience},
		},
		RecordID: recordID,
		Location: loc,
		Filename: filepath.Base(filename),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("linktoken.Issue: signing: %w", err)
	}
	return &Link{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *signer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithAudience(audience),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidDownloadToken
	}

	// Reject anything that could escape the artifact directories.
	if claims.Filename == "" || claims.Filename != filepath.Base(claims.Filename) || claims.Filename == ".." {
		return nil, domain.ErrInvalidDownloadToken
	}
	switch claims.Location {
	case LocationUploads, LocationProcessed:
	default:
		return nil, domain.ErrInvalidDownloadToken
	}
	return claims, nil
}

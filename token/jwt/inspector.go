package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/lexora/lexora-server/token/keys"
)

// Inspector verifies session credentials.
type Inspector struct {
	signer keys.Signer
}

// NewInspector creates a new JWT inspector
func NewInspector(signer keys.Signer) *Inspector {
	return &Inspector{signer: signer}
}

// Inspect returns the claims of a valid credential. Expired credentials
// produce an error matching errors.ErrTokenExpired, every other failure one
// matching errors.ErrInvalidToken.
func (i *Inspector) Inspect(rawToken string) (*SessionClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, apperrors.ErrInvalidToken
	}

	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
	)
	token, err := parser.ParseWithClaims(rawToken, jwtlib.MapClaims{}, i.signer.GetVerificationKey)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: error extracting claims from token", apperrors.ErrInvalidToken)
	}

	sid, _ := claims["sid"].(string)
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)

	if sid == "" || sub == "" {
		return nil, fmt.Errorf("%w: token missing sid or sub claim", apperrors.ErrInvalidToken)
	}

	return &SessionClaims{
		SessionID: sid,
		UserID:    sub,
		Role:      role,
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
		TokenID:   jti,
	}, nil
}

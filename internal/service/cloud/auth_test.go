package cloud

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/solutions/interview-coach/internal/common/utils"
	"github.com/solutions/interview-coach/internal/protodef/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProjectID = "interview-coach-test"

func TestVerifyFixedToken(t *testing.T) {
	svc := NewAuthService(utils.AuthConfig{
		FixedTokens: map[string]utils.FixedIdentity{
			"fixture": {UserID: "u-fixed", Email: "fixed@example.com"},
		},
	}, "", nil)
	claims, err := svc.VerifyIDToken(nil, "fixture")
	require.NoError(t, err)
	assert.Equal(t, "u-fixed", claims.UserID)
	assert.Equal(t, model.TokenSourceFixed, claims.Source)
}

func TestVerifyDevToken(t *testing.T) {
	svc := NewAuthService(utils.AuthConfig{DevMode: true}, "dev-secret", nil)
	signed := utils.JwtSign(map[string]interface{}{
		"userID": "u-dev",
		"email":  "dev@example.com",
	}, "dev-secret")

	claims, err := svc.VerifyIDToken(nil, signed)
	require.NoError(t, err)
	assert.Equal(t, "u-dev", claims.UserID)
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, model.TokenSourceDevJwt, claims.Source)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewAuthService(utils.AuthConfig{DevMode: true}, "dev-secret", nil)
	_, err := svc.VerifyIDToken(nil, "not-a-token")
	assert.Equal(t, ErrBadIDToken, err)
}

type testCertAuthority struct {
	key    *rsa.PrivateKey
	server *httptest.Server
}

func newTestCertAuthority(t *testing.T, kid string) *testCertAuthority {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		json.NewEncoder(w).Encode(map[string]string{kid: string(certPEM)})
	}))
	t.Cleanup(server.Close)
	return &testCertAuthority{key: key, server: server}
}

func (a *testCertAuthority) mint(t *testing.T, kid string, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(a.key)
	require.NoError(t, err)
	return signed
}

func providerClaims(sub string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   sub,
		"aud":   testProjectID,
		"iss":   "https://securetoken.google.com/" + testProjectID,
		"email": "candidate@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Add(-time.Minute).Unix(),
	}
}

func TestVerifyProviderToken(t *testing.T) {
	authority := newTestCertAuthority(t, "kid-1")
	svc := NewAuthService(utils.AuthConfig{
		ProjectID: testProjectID,
		CertsURL:  authority.server.URL,
	}, "", nil)

	signed := authority.mint(t, "kid-1", providerClaims("u-provider"))
	claims, err := svc.VerifyIDToken(nil, signed)
	require.NoError(t, err)
	assert.Equal(t, "u-provider", claims.UserID)
	assert.Equal(t, "candidate@example.com", claims.Email)
	assert.Equal(t, model.TokenSourceIDToken, claims.Source)
}

func TestVerifyProviderTokenWrongAudience(t *testing.T) {
	authority := newTestCertAuthority(t, "kid-1")
	svc := NewAuthService(utils.AuthConfig{
		ProjectID: testProjectID,
		CertsURL:  authority.server.URL,
	}, "", nil)

	claims := providerClaims("u-provider")
	claims["aud"] = "some-other-project"
	_, err := svc.VerifyIDToken(nil, authority.mint(t, "kid-1", claims))
	assert.Equal(t, ErrBadIDToken, err)
}

func TestVerifyProviderTokenExpired(t *testing.T) {
	authority := newTestCertAuthority(t, "kid-1")
	svc := NewAuthService(utils.AuthConfig{
		ProjectID: testProjectID,
		CertsURL:  authority.server.URL,
	}, "", nil)

	claims := providerClaims("u-provider")
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	_, err := svc.VerifyIDToken(nil, authority.mint(t, "kid-1", claims))
	assert.Equal(t, ErrBadIDToken, err)
}

func TestVerifyProviderTokenUnknownKid(t *testing.T) {
	authority := newTestCertAuthority(t, "kid-1")
	svc := NewAuthService(utils.AuthConfig{
		ProjectID: testProjectID,
		CertsURL:  authority.server.URL,
	}, "", nil)

	_, err := svc.VerifyIDToken(nil, authority.mint(t, "kid-2", providerClaims("u-provider")))
	assert.Equal(t, ErrBadIDToken, err)
}

func TestCertsTTL(t *testing.T) {
	assert.Equal(t, 1800*time.Second, certsTTL("public, max-age=1800, must-revalidate"))
	assert.Equal(t, defaultCertsTTL, certsTTL(""))
	assert.Equal(t, defaultCertsTTL, certsTTL("no-store"))
}

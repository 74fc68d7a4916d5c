package cloud

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/qiniu/x/xlog"
	"github.com/solutions/interview-coach/internal/common/utils"
	"github.com/solutions/interview-coach/internal/protodef/model"
)

// DefaultCertsURL Google securetoken signing certs used by Firebase Auth.
const DefaultCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

const defaultCertsTTL = time.Hour

var (
	ErrBadIDToken     = fmt.Errorf("bad ID token")
	ErrUnknownCertKid = fmt.Errorf("unknown signing key id")
)

// AuthService verifies bearer tokens. Real identity comes from provider
// ID tokens (RS256 against the provider's published certs); fixed tokens and
// HS256 dev tokens are accepted for tests and local development.
type AuthService struct {
	conf       utils.AuthConfig
	jwtKey     string
	httpClient *http.Client

	certs       map[string]*rsa.PublicKey
	certsExpire time.Time
	locker      sync.RWMutex

	xl *xlog.Logger
}

func NewAuthService(conf utils.AuthConfig, jwtKey string, xl *xlog.Logger) *AuthService {
	if xl == nil {
		xl = xlog.New("auth-service")
	}
	return &AuthService{
		conf:       conf,
		jwtKey:     jwtKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		certs:      map[string]*rsa.PublicKey{},
		xl:         xl,
	}
}

// Configured whether real ID token verification can happen.
func (s *AuthService) Configured() bool {
	return s.conf.ProjectID != ""
}

// VerifyIDToken resolves a bearer token to an identity. Verification order:
// fixed test tokens, HS256 dev tokens (dev mode only), provider ID tokens.
func (s *AuthService) VerifyIDToken(xl *xlog.Logger, token string) (*model.IdentityClaims, error) {
	if xl == nil {
		xl = s.xl
	}
	if identity, ok := s.conf.FixedTokens[token]; ok {
		return &model.IdentityClaims{
			UserID: identity.UserID,
			Email:  identity.Email,
			Source: model.TokenSourceFixed,
		}, nil
	}
	if s.conf.DevMode && s.jwtKey != "" {
		if claims, err := s.verifyDevToken(token); err == nil {
			return claims, nil
		}
	}
	if !s.Configured() {
		xl.Debugf("auth not configured, rejecting token")
		return nil, ErrBadIDToken
	}
	return s.verifyProviderToken(xl, token)
}

func (s *AuthService) verifyDevToken(token string) (*model.IdentityClaims, error) {
	claims, err := utils.JwtDecode(token, s.jwtKey)
	if err != nil {
		return nil, err
	}
	userID, _ := claims["userID"].(string)
	if userID == "" {
		return nil, ErrBadIDToken
	}
	email, _ := claims["email"].(string)
	return &model.IdentityClaims{
		UserID: userID,
		Email:  email,
		Source: model.TokenSourceDevJwt,
	}, nil
}

func (s *AuthService) verifyProviderToken(xl *xlog.Logger, token string) (*model.IdentityClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownCertKid
		}
		return s.certFor(xl, kid)
	})
	if err != nil {
		xl.Debugf("ID token verification failed, error %v", err)
		return nil, ErrBadIDToken
	}
	if aud, _ := claims["aud"].(string); aud != s.conf.ProjectID {
		xl.Debugf("ID token has wrong audience %v", claims["aud"])
		return nil, ErrBadIDToken
	}
	wantIssuer := "https://securetoken.google.com/" + s.conf.ProjectID
	if iss, _ := claims["iss"].(string); iss != wantIssuer {
		xl.Debugf("ID token has wrong issuer %v", claims["iss"])
		return nil, ErrBadIDToken
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return nil, ErrBadIDToken
	}
	email, _ := claims["email"].(string)
	return &model.IdentityClaims{
		UserID: userID,
		Email:  email,
		Source: model.TokenSourceIDToken,
	}, nil
}

func (s *AuthService) certFor(xl *xlog.Logger, kid string) (*rsa.PublicKey, error) {
	s.locker.RLock()
	key, ok := s.certs[kid]
	fresh := time.Now().Before(s.certsExpire)
	s.locker.RUnlock()
	if ok && fresh {
		return key, nil
	}
	if err := s.refreshCerts(xl); err != nil {
		return nil, err
	}
	s.locker.RLock()
	defer s.locker.RUnlock()
	key, ok = s.certs[kid]
	if !ok {
		return nil, ErrUnknownCertKid
	}
	return key, nil
}

func (s *AuthService) refreshCerts(xl *xlog.Logger) error {
	certsURL := s.conf.CertsURL
	if certsURL == "" {
		certsURL = DefaultCertsURL
	}
	res, err := s.httpClient.Get(certsURL)
	if err != nil {
		xl.Errorf("failed to fetch signing certs, error %v", err)
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("cert endpoint returned %d", res.StatusCode)
	}
	var pemByKid map[string]string
	if err := json.NewDecoder(res.Body).Decode(&pemByKid); err != nil {
		return err
	}
	certs := make(map[string]*rsa.PublicKey, len(pemByKid))
	for kid, certPEM := range pemByKid {
		key, err := parseCertPublicKey(certPEM)
		if err != nil {
			xl.Infof("skipping unparsable cert %s, error %v", kid, err)
			continue
		}
		certs[kid] = key
	}
	if len(certs) == 0 {
		return fmt.Errorf("no usable signing certs at %s", certsURL)
	}
	s.locker.Lock()
	s.certs = certs
	s.certsExpire = time.Now().Add(certsTTL(res.Header.Get("Cache-Control")))
	s.locker.Unlock()
	xl.Debugf("refreshed %d signing certs", len(certs))
	return nil
}

func parseCertPublicKey(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, fmt.Errorf("no PEM block")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA cert")
	}
	return key, nil
}

// certsTTL honors the endpoint's max-age, falling back to one hour.
func certsTTL(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "max-age=") {
			if seconds, err := strconv.Atoi(strings.TrimPrefix(part, "max-age=")); err == nil && seconds > 0 {
				return time.Duration(seconds) * time.Second
			}
		}
	}
	return defaultCertsTTL
}

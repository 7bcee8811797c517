package flash

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName é o nome do cookie que carrega a mensagem flash.
const CookieName = "estoque_flash"

// Kind classifica a mensagem para o template (cor do alerta).
type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

// Message é a mensagem de uso único exibida na próxima página renderizada.
type Message struct {
	Kind Kind
	Text string
}

// Claims é o conteúdo assinado do cookie.
type Claims struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	jwt.RegisteredClaims
}

// Messenger grava e consome mensagens flash em cookie assinado (HS256).
// A assinatura impede que o cliente injete HTML/texto arbitrário no alerta.
type Messenger struct {
	secretKey []byte
	ttl       time.Duration
	secure    bool
	now       func() time.Time
}

// NewMessenger cria o Messenger. ttl limita quanto tempo uma mensagem não lida sobrevive.
func NewMessenger(secretKey string, ttl time.Duration, secure bool) *Messenger {
	return &Messenger{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		secure:    secure,
		now:       time.Now,
	}
}

// Set grava a mensagem no cookie da resposta.
func (m *Messenger) Set(w http.ResponseWriter, kind Kind, text string) error {
	now := m.now()
	claims := Claims{
		Kind: kind,
		Text: text,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "estoque",
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return fmt.Errorf("falha ao assinar mensagem flash: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop lê a mensagem pendente e apaga o cookie, garantindo exibição única.
// Cookie ausente, adulterado ou expirado resulta em (Message{}, false).
func (m *Messenger) Pop(w http.ResponseWriter, r *http.Request) (Message, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Message{}, false
	}

	m.clear(w)

	claims, err := m.parse(cookie.Value)
	if err != nil {
		return Message{}, false
	}
	return Message{Kind: claims.Kind, Text: claims.Text}, true
}

func (m *Messenger) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("flash inválido: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("flash não é válido")
	}
	return claims, nil
}

func (m *Messenger) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

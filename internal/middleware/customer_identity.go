package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cardstash/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	HeaderTestUserID = "x-test-user-id"
	HeaderCustomerID = "x-customer-id"

	CtxCustomerIDKey = "customer_id" // int64
)

// CustomerIdentity はリクエストの顧客IDを決める。
//
//	x-test-user-id → Authorization: Bearer <jwt> → x-customer-id → DEFAULT_CUSTOMER_ID
//
// ヘッダの値が数値でなければ400、トークンが不正なら401。
func CustomerIdentity(cfg config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.JWTSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header

			if v := strings.TrimSpace(h.Get(HeaderTestUserID)); v != "" {
				id, err := parseCustomerID(v)
				if err != nil {
					return c.JSON(http.StatusBadRequest, errorJSON("invalid customer id"))
				}
				c.Set(CtxCustomerIDKey, id)
				return next(c)
			}

			if authz := h.Get("Authorization"); authz != "" {
				id, err := customerFromBearer(authz, secret)
				if err != nil {
					return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
				}
				c.Set(CtxCustomerIDKey, id)
				return next(c)
			}

			if v := strings.TrimSpace(h.Get(HeaderCustomerID)); v != "" {
				id, err := parseCustomerID(v)
				if err != nil {
					return c.JSON(http.StatusBadRequest, errorJSON("invalid customer id"))
				}
				c.Set(CtxCustomerIDKey, id)
				return next(c)
			}

			//どれも無ければ固定ユーザー
			c.Set(CtxCustomerIDKey, cfg.DefaultCustomerID)
			return next(c)
		}
	}
}

// CustomerID はCustomerIdentityが入れた値を取り出す
func CustomerID(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxCustomerIDKey).(int64)
	return id, ok && id > 0
}

func customerFromBearer(authz string, secret []byte) (int64, error) {
	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return 0, errors.New("not bearer")
	}
	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return 0, errors.New("empty token")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return 0, errors.New("invalid token")
	}
	return parseCustomerID(claims.Subject)
}

func parseCustomerID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("customer id must be positive")
	}
	return id, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

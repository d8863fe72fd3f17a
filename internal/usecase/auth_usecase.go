package usecase

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// usecaseがValidatorInterfaceに依存する約束
type LoginValidator interface {
	ValidateLogin(ctx context.Context, userName string, password string) error
}

type LoginInput struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

type LoginOutput struct {
	Token      string    `json:"token"`
	CustomerID int64     `json:"customer_id"`
	UserName   string    `json:"user_name"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// 初期投入する顧客（平文パスワードはここでだけ扱う）
type CustomerSeed struct {
	FirstName string
	LastName  string
	UserName  string
	Password  string
}

type AuthUsecase struct {
	customers repo.CustomerRepository
	validator LoginValidator
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewAuthUsecase(customers repo.CustomerRepository, validator LoginValidator, secret string, ttl time.Duration) *AuthUsecase {
	return &AuthUsecase{
		customers: customers,
		validator: validator,
		secret:    []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Login はuser_name/passwordを確かめてHS256のJWTを返す。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	if err := u.validator.ValidateLogin(ctx, in.UserName, in.Password); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "user_name and password are required")
	}

	c, err := u.customers.FindByUserName(ctx, in.UserName)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, internalError(err)
	}

	//ハッシュと比べる（ユーザーの有無で応答を変えない）
	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(in.Password)) != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := u.now()
	exp := now.Add(u.ttl)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(c.CustomerID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString(u.secret)
	if err != nil {
		return LoginOutput{}, internalError(err)
	}

	return LoginOutput{
		Token:      token,
		CustomerID: c.CustomerID,
		UserName:   c.UserName,
		ExpiresAt:  exp,
	}, nil
}

// SeedCustomers は顧客を作る。既にいるuser_nameはスキップ。
// 作成した件数を返す
func (u *AuthUsecase) SeedCustomers(ctx context.Context, seeds []CustomerSeed) (int, error) {
	created := 0
	for _, s := range seeds {
		//パスワードは必ずハッシュ化して保存（平文保存しない）
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, err
		}
		_, ok, err := u.customers.CreateIfAbsent(ctx, model.Customer{
			FirstName:    s.FirstName,
			LastName:     s.LastName,
			UserName:     s.UserName,
			PasswordHash: string(hash),
		})
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

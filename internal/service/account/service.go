package account

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/state"
)

const (
	GuestName      = "Cliente"
	defaultLabel   = "Casa"
	defaultCity    = "São Paulo"
	defaultZipCode = "00000-000"
)

// Registration is the sign-up form. Address is optional.
type Registration struct {
	Name     string         `json:"name"`
	Phone    string         `json:"phone"`
	Password string         `json:"password,omitempty"`
	WhatsApp string         `json:"whatsapp,omitempty"`
	Age      string         `json:"age,omitempty"`
	Email    string         `json:"email,omitempty"`
	PhotoURL string         `json:"photo_url,omitempty"`
	Address  *model.Address `json:"address,omitempty"`
}

// Service manages registered accounts and the current session. The session copy of a
// user never carries the password hash.
type Service struct {
	logger     *slog.Logger
	store      *state.Store
	bcryptCost int
}

func NewAccountService(l *slog.Logger, store *state.Store, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		logger:     l,
		store:      store,
		bcryptCost: bcryptCost,
	}
}

// Register stores the account, keyed by phone, and logs it in. Registering a phone
// again replaces the earlier account.
func (s *Service) Register(ctx context.Context, r Registration) (model.User, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	if r.Name == "" || r.Phone == "" {
		return model.User{}, fmt.Errorf("%w: name and phone are required", model.ErrInvalidUser)
	}

	user := model.User{
		ID:        r.Phone,
		Name:      r.Name,
		Phone:     r.Phone,
		WhatsApp:  r.WhatsApp,
		Age:       r.Age,
		Email:     r.Email,
		PhotoURL:  r.PhotoURL,
		Addresses: []model.Address{},
	}
	if r.Address != nil {
		addr, err := prepareAddress(*r.Address)
		if err != nil {
			return model.User{}, err
		}
		user.Addresses = append(user.Addresses, addr)
	}
	if r.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.bcryptCost)
		if err != nil {
			return model.User{}, fmt.Errorf("account.Register: hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	err := s.store.Update(ctx, func(tx *state.Tx) error {
		users, err := tx.Users()
		if err != nil {
			return err
		}
		users = slices.DeleteFunc(users, func(u model.User) bool { return u.ID == user.ID })
		if err = tx.SetUsers(append(users, user)); err != nil {
			return err
		}
		return tx.SetUser(sessionCopy(user))
	})
	if err != nil {
		return model.User{}, fmt.Errorf("account.Register: %w", err)
	}

	s.logger.Info("user registered", slog.String("id", user.ID))
	return sessionCopy(user), nil
}

// Login opens a session for phone. An unknown phone without a password logs in as a guest.
func (s *Service) Login(ctx context.Context, phone, password string) (model.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return model.User{}, fmt.Errorf("%w: phone is required", model.ErrInvalidUser)
	}

	var principal model.User
	err := s.store.Update(ctx, func(tx *state.Tx) error {
		users, err := tx.Users()
		if err != nil {
			return err
		}

		i := slices.IndexFunc(users, func(u model.User) bool { return u.Phone == phone })
		switch {
		case i >= 0:
			if !passwordMatches(users[i].PasswordHash, password) {
				return model.ErrAuthenticationFailed
			}
			principal = sessionCopy(users[i])
		case password != "":
			return model.ErrUserNotFound
		default:
			principal = model.User{ID: phone, Name: GuestName, Phone: phone, Addresses: []model.Address{}}
		}
		return tx.SetUser(principal)
	})
	if err != nil {
		if model.IsUserError(err) {
			s.logger.Info("login rejected", slog.String("phone", phone), slog.Any("error", err))
			return model.User{}, err
		}
		return model.User{}, fmt.Errorf("account.Login: %w", err)
	}

	s.logger.Info("user logged in", slog.String("id", principal.ID))
	return principal, nil
}

func (s *Service) Logout(ctx context.Context) error {
	err := s.store.Update(ctx, func(tx *state.Tx) error {
		tx.ClearUser()
		return nil
	})
	if err != nil {
		return fmt.Errorf("account.Logout: %w", err)
	}
	return nil
}

// Current returns the session principal or nil.
func (s *Service) Current(ctx context.Context) (*model.User, error) {
	user, err := s.store.User(ctx)
	if err != nil {
		return nil, fmt.Errorf("account.Current: %w", err)
	}
	return user, nil
}

// AddAddress appends addr to the session user and to their stored account, if any.
func (s *Service) AddAddress(ctx context.Context, addr model.Address) (model.User, error) {
	addr, err := prepareAddress(addr)
	if err != nil {
		return model.User{}, err
	}

	return s.updateSessionUser(ctx, "account.AddAddress", func(u *model.User) error {
		u.Addresses = append(u.Addresses, addr)
		return nil
	})
}

func (s *Service) RemoveAddress(ctx context.Context, id string) (model.User, error) {
	return s.updateSessionUser(ctx, "account.RemoveAddress", func(u *model.User) error {
		n := len(u.Addresses)
		u.Addresses = slices.DeleteFunc(u.Addresses, func(a model.Address) bool { return a.ID == id })
		if len(u.Addresses) == n {
			return fmt.Errorf("%w: no address %s", model.ErrInvalidAddress, id)
		}
		return nil
	})
}

func (s *Service) updateSessionUser(ctx context.Context, op string, fn func(u *model.User) error) (model.User, error) {
	var updated model.User
	err := s.store.Update(ctx, func(tx *state.Tx) error {
		current, err := tx.User()
		if err != nil {
			return err
		}
		if current == nil {
			return model.ErrNotLoggedIn
		}
		updated = current.Clone()
		if err = fn(&updated); err != nil {
			return err
		}
		if err = tx.SetUser(updated); err != nil {
			return err
		}

		users, err := tx.Users()
		if err != nil {
			return err
		}
		i := slices.IndexFunc(users, func(u model.User) bool { return u.ID == updated.ID })
		if i < 0 {
			return nil
		}
		users[i].Addresses = slices.Clone(updated.Addresses)
		return tx.SetUsers(users)
	})
	if err != nil {
		if model.IsUserError(err) {
			return model.User{}, err
		}
		return model.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func prepareAddress(a model.Address) (model.Address, error) {
	if err := a.Validate(); err != nil {
		return model.Address{}, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Label == "" {
		a.Label = defaultLabel
	}
	if a.City == "" {
		a.City = defaultCity
	}
	if a.ZipCode == "" {
		a.ZipCode = defaultZipCode
	}
	return a, nil
}

// passwordMatches accepts any password for accounts registered without one.
func passwordMatches(hash, password string) bool {
	if hash == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func sessionCopy(u model.User) model.User {
	c := u.Clone()
	c.PasswordHash = ""
	if c.Addresses == nil {
		c.Addresses = []model.Address{}
	}
	return c
}

package authrpc

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

type CreateUserRequest struct {
	UserName    string
	Email       string
	Password    string
	Description string
	IsActive    bool
}

func (m *CreateUserRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.UserName)
	b = appendString(b, 2, m.Email)
	b = appendString(b, 3, m.Password)
	b = appendString(b, 4, m.Description)
	return appendBool(b, 5, m.IsActive)
}

func (m *CreateUserRequest) consumeWire(b []byte) error {
	*m = CreateUserRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.UserName)
		case 2:
			return consumeString(typ, b, &m.Email)
		case 3:
			return consumeString(typ, b, &m.Password)
		case 4:
			return consumeString(typ, b, &m.Description)
		case 5:
			return consumeBool(typ, b, &m.IsActive)
		}
		return 0, nil
	})
}

type UserProfile struct {
	ID          int64
	UserName    string
	Email       string
	Description string
	IsActive    bool
}

func (m *UserProfile) appendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.ID)
	b = appendString(b, 2, m.UserName)
	b = appendString(b, 3, m.Email)
	b = appendString(b, 4, m.Description)
	return appendBool(b, 5, m.IsActive)
}

func (m *UserProfile) consumeWire(b []byte) error {
	*m = UserProfile{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeInt64(typ, b, &m.ID)
		case 2:
			return consumeString(typ, b, &m.UserName)
		case 3:
			return consumeString(typ, b, &m.Email)
		case 4:
			return consumeString(typ, b, &m.Description)
		case 5:
			return consumeBool(typ, b, &m.IsActive)
		}
		return 0, nil
	})
}

type LoginRequest struct {
	Email    string
	Password string
}

func (m *LoginRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	return appendString(b, 2, m.Password)
}

func (m *LoginRequest) consumeWire(b []byte) error {
	*m = LoginRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Email)
		case 2:
			return consumeString(typ, b, &m.Password)
		}
		return 0, nil
	})
}

type LoginResponse struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

func (m *LoginResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.AccessToken)
	b = appendString(b, 2, m.TokenType)
	return appendTime(b, 3, m.ExpiresAt)
}

func (m *LoginResponse) consumeWire(b []byte) error {
	*m = LoginResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.AccessToken)
		case 2:
			return consumeString(typ, b, &m.TokenType)
		case 3:
			return consumeTime(typ, b, &m.ExpiresAt)
		}
		return 0, nil
	})
}

// VerifyTokenRequest carries the token in the body; when empty the
// access_token metadata is used instead.
type VerifyTokenRequest struct {
	Token string
}

func (m *VerifyTokenRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.Token)
}

func (m *VerifyTokenRequest) consumeWire(b []byte) error {
	*m = VerifyTokenRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.Token)
		}
		return 0, nil
	})
}

type VerifyTokenResponse struct {
	Valid bool
	Email string
}

func (m *VerifyTokenResponse) appendWire(b []byte) []byte {
	b = appendBool(b, 1, m.Valid)
	return appendString(b, 2, m.Email)
}

func (m *VerifyTokenResponse) consumeWire(b []byte) error {
	*m = VerifyTokenResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeBool(typ, b, &m.Valid)
		case 2:
			return consumeString(typ, b, &m.Email)
		}
		return 0, nil
	})
}

type Empty struct{}

func (m *Empty) appendWire(b []byte) []byte { return b }

func (m *Empty) consumeWire(b []byte) error {
	return consumeFields(b, func(protowire.Number, protowire.Type, []byte) (int, error) { return 0, nil })
}

type MessageResponse struct {
	Message string
}

func (m *MessageResponse) appendWire(b []byte) []byte {
	return appendString(b, 1, m.Message)
}

func (m *MessageResponse) consumeWire(b []byte) error {
	*m = MessageResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.Message)
		}
		return 0, nil
	})
}

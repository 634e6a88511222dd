package authrpc

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodec_RoundTrip(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 600, time.UTC)

	tests := []struct {
		name string
		in   any
		out  any
	}{
		{"create user", &CreateUserRequest{UserName: "bob", Email: "b@x.io", Password: "pw", Description: "d", IsActive: true}, &CreateUserRequest{}},
		{"profile", &UserProfile{ID: 1 << 40, UserName: "bob", Email: "b@x.io", IsActive: true}, &UserProfile{}},
		{"login", &LoginRequest{Email: "a@x.io", Password: "pw"}, &LoginRequest{}},
		{"login response", &LoginResponse{AccessToken: "tok", TokenType: "bearer", ExpiresAt: exp}, &LoginResponse{}},
		{"verify request", &VerifyTokenRequest{Token: "tok"}, &VerifyTokenRequest{}},
		{"verify response", &VerifyTokenResponse{Valid: true, Email: "a@x.io"}, &VerifyTokenResponse{}},
		{"message", &MessageResponse{Message: "Successfully logged out"}, &MessageResponse{}},
		{"empty", &Empty{}, &Empty{}},
		{"zero values", &UserProfile{}, &UserProfile{ID: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Codec{}.Marshal(tt.in)
			require.NoError(t, err)
			require.NoError(t, Codec{}.Unmarshal(b, tt.out))
			if diff := cmp.Diff(tt.in, tt.out); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCodec_WireFormat(t *testing.T) {
	b, err := Codec{}.Marshal(&VerifyTokenResponse{Valid: true, Email: "a@x.io"})
	require.NoError(t, err)

	// field 1 varint true, field 2 length-delimited "a@x.io"
	want := []byte{0x08, 0x01, 0x12, 0x06, 'a', '@', 'x', '.', 'i', 'o'}
	assert.Equal(t, want, b)

	b, err = Codec{}.Marshal(&VerifyTokenResponse{})
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestCodec_DecodesTimestampAndSkipsUnknownFields(t *testing.T) {
	exp := time.Unix(2000000000, 123).UTC()
	ts, err := proto.Marshal(timestamppb.New(exp))
	require.NoError(t, err)

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, "tok")
	b = protowire.AppendTag(b, 9, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, ts)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, "bearer")

	var got LoginResponse
	require.NoError(t, Codec{}.Unmarshal(b, &got))
	assert.Equal(t, LoginResponse{AccessToken: "tok", TokenType: "bearer", ExpiresAt: exp}, got)
}

func TestCodec_ResetsTarget(t *testing.T) {
	got := &LoginRequest{Email: "old@x.io", Password: "old"}
	require.NoError(t, Codec{}.Unmarshal([]byte{0x0a, 0x01, 'n'}, got))
	assert.Equal(t, &LoginRequest{Email: "n"}, got)
}

func TestCodec_RejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated string", []byte{0x0a, 0x05, 'a'}},
		{"wrong wire type", []byte{0x08, 0x01}},
		{"bad tag", []byte{0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Codec{}.Unmarshal(tt.data, &LoginRequest{}))
		})
	}
}

func TestCodec_DelegatesProtoMessages(t *testing.T) {
	in := &healthpb.HealthCheckRequest{Service: ServiceName}
	b, err := Codec{}.Marshal(in)
	require.NoError(t, err)

	var out healthpb.HealthCheckRequest
	require.NoError(t, Codec{}.Unmarshal(b, &out))
	assert.Equal(t, ServiceName, out.GetService())
}

func TestCodec_RejectsOtherTypes(t *testing.T) {
	_, err := Codec{}.Marshal(struct{}{})
	assert.Error(t, err)
	assert.Error(t, Codec{}.Unmarshal(nil, &struct{}{}))
}

func TestServiceDesc_Methods(t *testing.T) {
	names := map[string]bool{}
	for _, m := range AuthServiceDesc.Methods {
		names[m.MethodName] = true
		assert.NotNil(t, m.Handler, m.MethodName)
	}
	for _, want := range []string{"CreateUser", "Login", "VerifyToken", "Logout", "Me", "DeleteUser"} {
		assert.True(t, names[want], want)
	}
	assert.True(t, ProtectedMethods[MeMethod])
	assert.False(t, ProtectedMethods[LoginMethod])
}

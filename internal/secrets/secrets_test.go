package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	values map[string]string
	calls  int
}

func (f *fakeFetcher) GetSecret(_ context.Context, name string, _ string, _ *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	f.calls++
	v, ok := f.values[name]
	if !ok {
		return azsecrets.GetSecretResponse{}, errors.New("SecretNotFound")
	}
	return azsecrets.GetSecretResponse{Secret: azsecrets.Secret{Value: &v}}, nil
}

func TestResolveSource(t *testing.T) {
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, "development"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, ""))
	assert.Equal(t, SourceVault, ResolveSource(SourceAuto, "production"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceEnvironment, "production"))
}

func TestProvider_EnvironmentSource(t *testing.T) {
	t.Setenv("CEPF_TEST_SECRET", "s3cret")

	p, err := NewProvider(&ProviderConfig{Source: SourceAuto, Environment: "development"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsVaultEnabled())

	v, err := p.GetSecret(context.Background(), "CEPF_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)

	_, err = p.GetSecret(context.Background(), "CEPF_TEST_MISSING")
	assert.Error(t, err)
}

func TestProvider_EnvOverride(t *testing.T) {
	t.Setenv("JWT_SECRET_OVERRIDE", "from-env")
	fetcher := &fakeFetcher{values: map[string]string{"jwt-secret": "from-vault"}}
	p := &Provider{
		source: SourceVault,
		vault:  newVaultClient(fetcher, &VaultConfig{VaultName: "kv"}, zap.NewNop()),
		logger: zap.NewNop(),
	}

	v, err := p.GetSecretOrEnv(context.Background(), "jwt-secret", "JWT_SECRET_OVERRIDE")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)
	assert.Equal(t, 0, fetcher.calls)

	v, err = p.GetSecretOrEnv(context.Background(), "jwt-secret", "JWT_SECRET_UNSET")
	require.NoError(t, err)
	assert.Equal(t, "from-vault", v)
}

func TestVaultClient_Cache(t *testing.T) {
	fetcher := &fakeFetcher{values: map[string]string{"admin-api-key": "k1"}}
	vc := newVaultClient(fetcher, &VaultConfig{VaultName: "kv", CacheEnabled: true, CacheTTL: time.Minute}, zap.NewNop())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	vc.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		v, err := vc.GetSecret(context.Background(), "admin-api-key")
		require.NoError(t, err)
		assert.Equal(t, "k1", v)
	}
	assert.Equal(t, 1, fetcher.calls)

	now = now.Add(2 * time.Minute)
	_, err := vc.GetSecret(context.Background(), "admin-api-key")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)

	vc.ClearCache()
	_, err = vc.GetSecret(context.Background(), "admin-api-key")
	require.NoError(t, err)
	assert.Equal(t, 3, fetcher.calls)

	_, err = vc.GetSecret(context.Background(), "missing")
	assert.Error(t, err)
}

func TestVaultClient_NoCache(t *testing.T) {
	fetcher := &fakeFetcher{values: map[string]string{"k": "v"}}
	vc := newVaultClient(fetcher, &VaultConfig{VaultName: "kv"}, zap.NewNop())

	_, _ = vc.GetSecret(context.Background(), "k")
	_, _ = vc.GetSecret(context.Background(), "k")
	assert.Equal(t, 2, fetcher.calls)
}

package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"
)

func TestStampRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	require.Equal(t, now, parseStamp(now.Format(timeFormat)))
}

func TestParseStamp_Garbage(t *testing.T) {
	require.True(t, parseStamp("not a timestamp").IsZero())
	require.True(t, parseStamp("").IsZero())
}

func TestConditionalFailed(t *testing.T) {
	cfe := &types.ConditionalCheckFailedException{}
	require.True(t, conditionalFailed(cfe))
	require.True(t, conditionalFailed(errors.Join(errors.New("wrapped"), cfe)))
	require.False(t, conditionalFailed(errors.New("throttled")))
	require.False(t, conditionalFailed(nil))
}

func TestMergeNames(t *testing.T) {
	a := map[string]string{"#id": "id"}
	b := map[string]string{"#status": "status"}

	merged := mergeNames(a, b)
	require.Equal(t, map[string]string{"#id": "id", "#status": "status"}, merged)

	require.Equal(t, a, mergeNames(a, nil))
	require.Equal(t, b, mergeNames(nil, b))

	// Later entries win on key collision.
	require.Equal(t, map[string]string{"#id": "other"}, mergeNames(a, map[string]string{"#id": "other"}))
}

func TestGetenvDefault(t *testing.T) {
	t.Setenv("LEADS_TABLE", "")
	require.Equal(t, "leads", getenvDefault("LEADS_TABLE", "leads"))

	t.Setenv("LEADS_TABLE", "leads_test")
	require.Equal(t, "leads_test", getenvDefault("LEADS_TABLE", "leads"))
}

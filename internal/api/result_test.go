package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOKRequiresExactCode(t *testing.T) {
	require.True(t, Success(Empty{}, "").OK())
	require.False(t, Failure[Empty](CodeInternal, "boom").OK())
	require.False(t, Result[Empty]{Code: 201}.OK())
	require.False(t, Result[Empty]{}.OK())
}

func TestEnvelopeJSONShape(t *testing.T) {
	raw, err := json.Marshal(Success(Dashboard{Total: 3}, "ok"))
	require.NoError(t, err)
	require.JSONEq(t, `{"code":200,"message":"ok","data":{"total":3,"trends":null}}`, string(raw))
}

func TestPageQueryNormalize(t *testing.T) {
	q := PageQuery{}.Normalize()
	require.Equal(t, PageQuery{Page: 1, PageSize: 20}, q)
	require.Equal(t, 0, q.Offset())

	q = PageQuery{Page: 3, PageSize: 500}.Normalize()
	require.Equal(t, 100, q.PageSize)
	require.Equal(t, 200, q.Offset())
}

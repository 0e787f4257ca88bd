package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	ts := time.Date(2022, 11, 8, 9, 5, 3, 0, time.UTC)
	assert.Equal(t, "2022-11-08 09:05:03", FormatTime(ts))
}

func TestSoftDelete_IsDeleted(t *testing.T) {
	assert.False(t, SoftDelete{DeleteYn: Live}.IsDeleted())
	assert.True(t, SoftDelete{DeleteYn: Deleted}.IsDeleted())
	assert.False(t, SoftDelete{}.IsDeleted())
}

func TestCustomer_JSONFieldNames(t *testing.T) {
	email := "kim@example.com"
	c := Customer{CID: 7, Email: &email, Audit: Audit{CreatedAt: "2022-11-08 09:00:00"}, SoftDelete: SoftDelete{DeleteYn: Live}}

	body, err := json.Marshal(c)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))

	assert.Equal(t, float64(7), fields["cid"])
	assert.Equal(t, email, fields["email"])
	assert.Equal(t, "2022-11-08 09:00:00", fields["createdAt"])
	assert.Equal(t, "N", fields["deleteYn"])
	assert.Contains(t, fields, "firstName")
	assert.Nil(t, fields["firstName"])
	assert.NotContains(t, fields, "updatedAt")
}

func TestDept_DecodeOmittedFieldsStayNil(t *testing.T) {
	var d Dept
	require.NoError(t, json.Unmarshal([]byte(`{"dno":3,"dname":"Sales"}`), &d))

	assert.Equal(t, int64(3), d.DNO)
	require.NotNil(t, d.DName)
	assert.Equal(t, "Sales", *d.DName)
	assert.Nil(t, d.Loc)
}

func TestFaq_HasNoSoftDeleteFields(t *testing.T) {
	body, err := json.Marshal(Faq{No: 1})
	require.NoError(t, err)
	assert.NotContains(t, string(body), "deleteYn")
	assert.NotContains(t, string(body), "deleteTime")
}

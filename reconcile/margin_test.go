package reconcile

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDiscount_RoundTrip(t *testing.T) {
	got, err := ComputeDiscount(d("1000"), DiscountTerms{Percentage: nd("10")})
	require.NoError(t, err)

	assertMoney(t, "1000", got.ClientCostBeforeDiscount)
	assertMoney(t, "10", got.DiscountPercentage)
	assertMoney(t, "100", got.DiscountAmount)
	assertMoney(t, "900", got.GrandTotalAfterDiscount)
	assert.NoError(t, got.Validate())
}

func TestComputeDiscount_AmountBackfillsPercentage(t *testing.T) {
	got, err := ComputeDiscount(d("2000"), DiscountTerms{Amount: nd("150"), Percentage: nd("50")})
	require.NoError(t, err)

	assertMoney(t, "150", got.DiscountAmount)
	assertMoney(t, "7.5", got.DiscountPercentage)
	assertMoney(t, "1850", got.GrandTotalAfterDiscount)
	assert.NoError(t, got.Validate())
}

func TestComputeDiscount_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		cost  string
		terms DiscountTerms
		err   error
	}{
		{"percentage above 100", "100", DiscountTerms{Percentage: nd("101")}, ErrPercentageRange},
		{"negative percentage", "100", DiscountTerms{Percentage: nd("-1")}, ErrPercentageRange},
		{"negative amount", "100", DiscountTerms{Amount: nd("-1")}, ErrNegativeAmount},
		{"amount above cost", "100", DiscountTerms{Amount: nd("100.01")}, ErrDiscountExceedsCost},
		{"negative cost", "-100", DiscountTerms{Percentage: nd("5")}, ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeDiscount(d(tt.cost), tt.terms)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDiscountDetails_Validate(t *testing.T) {
	tests := []struct {
		name    string
		details DiscountDetails
		field   string
	}{
		{
			name: "within tolerance",
			details: DiscountDetails{
				ClientCostBeforeDiscount: d("999.99"),
				DiscountPercentage:       d("10"),
				DiscountAmount:           d("100.00"),
				GrandTotalAfterDiscount:  d("899.99"),
			},
		},
		{
			name: "grand total mismatch",
			details: DiscountDetails{
				ClientCostBeforeDiscount: d("1000"),
				DiscountPercentage:       d("10"),
				DiscountAmount:           d("100"),
				GrandTotalAfterDiscount:  d("950"),
			},
			field: "grand_total_after_discount",
		},
		{
			name: "amount does not match percentage",
			details: DiscountDetails{
				ClientCostBeforeDiscount: d("1000"),
				DiscountPercentage:       d("10"),
				DiscountAmount:           d("50"),
				GrandTotalAfterDiscount:  d("950"),
			},
			field: "discount_amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.details.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, ErrDiscountMismatch)
		})
	}
}

func TestComputeClientPays(t *testing.T) {
	got, err := ComputeClientPays(d("1120"), Absent())
	require.NoError(t, err)
	assertMoney(t, "1120", got)

	got, err = ComputeClientPays(d("1120"), nd("0"))
	require.NoError(t, err)
	assertMoney(t, "1120", got)

	got, err = ComputeClientPays(d("1000"), nd("100"))
	require.NoError(t, err)
	assertMoney(t, "900", got)

	_, err = ComputeClientPays(d("10"), nd("11"))
	assert.ErrorIs(t, err, ErrDiscountExceedsCost)

	_, err = ComputeClientPays(d("10"), nd("-1"))
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestComputeNegotiableMargin_KeepsSign(t *testing.T) {
	tests := []struct {
		name       string
		clientPays string
		spending   string
		expect     string
	}{
		{"loss is not clamped", "100", "120", "-20"},
		{"profit", "1120", "920", "200"},
		{"break even", "500", "500", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeNegotiableMargin(d(tt.clientPays), d(tt.spending))
			require.NoError(t, err)
			assertMoney(t, tt.expect, got)
		})
	}
}

func TestComputeNegotiableMargin_RejectsNegative(t *testing.T) {
	tests := []struct {
		name       string
		clientPays string
		spending   string
		field      string
	}{
		{"negative client pays", "-100", "50", "client_pays"},
		{"negative spending", "100", "-50", "actual_spending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeNegotiableMargin(d(tt.clientPays), d(tt.spending))
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, ErrNegativeAmount)
		})
	}
}

func TestComputeActualMargin(t *testing.T) {
	op, err := ComputeOverheadProfitAllocation(d("900"), d("25"))
	require.NoError(t, err)
	assertMoney(t, "225", op)

	got, err := ComputeActualMargin(d("900"), d("25"), d("50"))
	require.NoError(t, err)
	assertMoney(t, "275", got)

	got, err = ComputeActualMargin(d("900"), d("25"), d("-300"))
	require.NoError(t, err)
	assertMoney(t, "-75", got)

	_, err = ComputeActualMargin(d("900"), d("120"), d("50"))
	assert.ErrorIs(t, err, ErrPercentageRange)
}

func TestMarginPercentage(t *testing.T) {
	p := MarginPercentage(d("200"), d("1120"))
	require.True(t, p.Defined)
	assert.Equal(t, "17.86%", p.String())

	undefined := MarginPercentage(d("-50"), d("0"))
	assert.False(t, undefined.Defined)
	assert.Equal(t, "N/A", undefined.String())

	raw, err := json.Marshal(undefined)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))

	var back Percentage
	require.NoError(t, json.Unmarshal([]byte(`"12.5"`), &back))
	assert.True(t, back.Defined)
	assertMoney(t, "12.5", back.Value)

	require.NoError(t, json.Unmarshal([]byte("null"), &back))
	assert.False(t, back.Defined)
}

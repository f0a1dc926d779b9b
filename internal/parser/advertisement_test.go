package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larriantoniy/pethome_bot/internal/domain"
)

func TestParseAdvertisement_Valid(t *testing.T) {
	text := "Jerry\nGrey ear, black nose\n3\nfound\nKyiv, Solomianskyi, Berehivska\n13.05.2021"

	ad, err := ParseAdvertisement(text)
	require.NoError(t, err)

	assert.Equal(t, domain.AdPayload{
		PetName: "Jerry",
		Signs:   []string{"Grey ear", "black nose"},
		Age:     3,
		Type:    domain.AdFound,
		Location: domain.Location{
			City:     "Kyiv",
			District: "Solomianskyi",
			Street:   "Berehivska",
		},
		Date: domain.Date{Day: 13, Month: 5, Year: 2021},
	}, ad)
}

func TestParseAdvertisement_Lenient(t *testing.T) {
	t.Run("type label is case-insensitive and trimmed", func(t *testing.T) {
		ad, err := ParseAdvertisement("Tom\ncollar\n2\n  LoSt \nLviv, Center, Rynok\n1.1.2020")
		require.NoError(t, err)
		assert.Equal(t, domain.AdLost, ad.Type)
	})

	t.Run("empty signs line gives empty list", func(t *testing.T) {
		ad, err := ParseAdvertisement("Tom\n\n2\nobserved\nLviv, Center, Rynok\n1.1.2020")
		require.NoError(t, err)
		assert.Empty(t, ad.Signs)
		assert.NotNil(t, ad.Signs)
	})

	t.Run("windows line endings", func(t *testing.T) {
		ad, err := ParseAdvertisement("Tom\r\ncollar\r\n2\r\nfound\r\nLviv, Center, Rynok\r\n1.1.2020\r\n")
		require.NoError(t, err)
		assert.Equal(t, "Tom", ad.PetName)
		assert.Equal(t, domain.Date{Day: 1, Month: 1, Year: 2020}, ad.Date)
	})

	t.Run("negative age passes through", func(t *testing.T) {
		ad, err := ParseAdvertisement("Tom\ncollar\n-1\nfound\nLviv, Center, Rynok\n1.1.2020")
		require.NoError(t, err)
		assert.Equal(t, -1, ad.Age)
	})
}

func TestParseAdvertisement_Invalid(t *testing.T) {
	cases := map[string]string{
		"four lines":          "Jerry\nGrey ear\n3\nfound",
		"empty":               "",
		"blank pet name":      "  \nGrey ear\n3\nfound\nKyiv, A, B\n13.05.2021",
		"age not a number":    "Jerry\nGrey ear\nthree\nfound\nKyiv, A, B\n13.05.2021",
		"unknown type":        "Jerry\nGrey ear\n3\nmissing\nKyiv, A, B\n13.05.2021",
		"two location parts":  "Jerry\nGrey ear\n3\nfound\nKyiv, A\n13.05.2021",
		"four location parts": "Jerry\nGrey ear\n3\nfound\nKyiv, A, B, C\n13.05.2021",
		"short date":          "Jerry\nGrey ear\n3\nfound\nKyiv, A, B\n13.05",
		"date not numbers":    "Jerry\nGrey ear\n3\nfound\nKyiv, A, B\n13.May.2021",
	}

	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAdvertisement(text)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Reason)
		})
	}
}

func TestParseAdvertisement_TypeHint(t *testing.T) {
	_, err := ParseAdvertisement("Jerry\nGrey ear\n3\nfund\nKyiv, A, B\n13.05.2021")

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, `did you mean "found"?`, verr.Hint)

	_, err = ParseAdvertisement("Jerry\nGrey ear\n3\nzzzzzzzz\nKyiv, A, B\n13.05.2021")
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, verr.Hint)
}

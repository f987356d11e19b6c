package sharelink

import (
	"errors"
	"fmt"
	"strings"

	"github.com/speps/go-hashids/v2"
)

var ErrInvalidCode = errors.New("invalid share code")

const minCodeLength = 8

// Codec turns event ids into short, non-sequential codes for public links.
type Codec struct {
	h       *hashids.HashID
	baseURL string
}

func New(salt, baseURL string) (*Codec, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = minCodeLength

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("hashids: %w", err)
	}
	return &Codec{h: h, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (c *Codec) Encode(eventID int64) (string, error) {
	return c.h.EncodeInt64([]int64{eventID})
}

func (c *Codec) Decode(code string) (int64, error) {
	ids, err := c.h.DecodeInt64WithError(code)
	if err != nil || len(ids) != 1 || ids[0] <= 0 {
		return 0, ErrInvalidCode
	}
	return ids[0], nil
}

// EventURL is the audience-facing page for an event, the target of its QR code.
func (c *Codec) EventURL(eventID int64) (string, error) {
	code, err := c.Encode(eventID)
	if err != nil {
		return "", err
	}
	return c.baseURL + "/e/" + code, nil
}

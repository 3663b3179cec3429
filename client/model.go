package client

import (
	"fmt"
	"net/netip"
	"strconv"
)

// defaultPageSize is the maximum page size the API accepts.
const defaultPageSize = 10_000

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code.
const maxErrBodySize = 4 << 10 // 4KB

// SearchResult holds the merged result of a search across all pages.
type SearchResult struct {
	// Entries lists the matched records.
	Entries []SearchEntry
	// Balance is the remaining account balance.
	Balance int
}

// SearchEntry is a single record in a [SearchResult]. Fields the record
// doesn't carry are left at their zero value.
type SearchEntry struct {
	ID             uint64
	Email          string
	Username       string
	Password       string
	HashedPassword string
	IPAddress      netip.Addr
	Name           string
	Vin            string
	Address        string
	Phone          string
	DatabaseName   string
}

// entry is the wire format of a single record. All fields arrive as
// strings, with "" standing in for absent values.
type entry struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	HashedPassword string `json:"hashed_password"`
	IPAddress      string `json:"ip_address"`
	Name           string `json:"name"`
	Vin            string `json:"vin"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	DatabaseName   string `json:"database_name"`
}

// response is the wire format of a single result page.
type response struct {
	Balance int     `json:"balance"`
	Entries []entry `json:"entries"`
	Success bool    `json:"success"`
	Took    string  `json:"took"`
	Total   int     `json:"total"`
}

func (e entry) toSearchEntry() (SearchEntry, error) {
	id, err := strconv.ParseUint(e.ID, 10, 64)
	if err != nil {
		return SearchEntry{}, fmt.Errorf("%w: parsing entry id %q: %w", ErrMalformedResponse, e.ID, err)
	}

	out := SearchEntry{
		ID:             id,
		Email:          e.Email,
		Username:       e.Username,
		Password:       e.Password,
		HashedPassword: e.HashedPassword,
		Name:           e.Name,
		Vin:            e.Vin,
		Address:        e.Address,
		Phone:          e.Phone,
		DatabaseName:   e.DatabaseName,
	}

	if e.IPAddress != "" {
		addr, err := netip.ParseAddr(e.IPAddress)
		if err != nil {
			return SearchEntry{}, fmt.Errorf("%w: parsing entry ip address %q: %w", ErrMalformedResponse, e.IPAddress, err)
		}
		out.IPAddress = addr
	}

	return out, nil
}

// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package iptrie

import (
	"errors"
	"net/netip"

	"github.com/Orange-OpenSource/iptrie/internal/bitkey"
)

// ErrInvalidPrefix is returned whenever a netip.Prefix or netip.Addr handed
// to the library is invalid or belongs to the wrong address family for the
// table it is used with. Lookup misses are never reported this way — they
// use the ok bool, matching the rest of the package's miss-is-not-
// exceptional convention.
var ErrInvalidPrefix = errors.New("iptrie: invalid prefix")

// codec converts between netip's address types and the internal bit-key
// representation for one address-family flavour (v4-only, v6-only, or the
// mixed v4-in-v6 facade).
type codec struct {
	encodePrefix func(netip.Prefix) (bitkey.Key, error)
	encodeAddr   func(netip.Addr) (bitkey.Key, error)
	decode       func(bitkey.Key) netip.Prefix
}

func codec4() codec {
	return codec{
		encodePrefix: func(p netip.Prefix) (bitkey.Key, error) {
			if !p.IsValid() || !p.Addr().Is4() {
				return bitkey.Key{}, ErrInvalidPrefix
			}
			return bitkey.FromV4(p.Addr().As4(), uint8(p.Bits())), nil
		},
		encodeAddr: func(a netip.Addr) (bitkey.Key, error) {
			if !a.IsValid() || !a.Is4() {
				return bitkey.Key{}, ErrInvalidPrefix
			}
			return bitkey.FromV4(a.As4(), 32), nil
		},
		decode: func(k bitkey.Key) netip.Prefix {
			addr, length := k.AsV4Only()
			return netip.PrefixFrom(netip.AddrFrom4(addr), int(length))
		},
	}
}

func codec6() codec {
	return codec{
		encodePrefix: func(p netip.Prefix) (bitkey.Key, error) {
			if !p.IsValid() || !p.Addr().Is6() || p.Addr().Is4In6() {
				return bitkey.Key{}, ErrInvalidPrefix
			}
			return bitkey.FromV6(p.Addr().As16(), uint8(p.Bits())), nil
		},
		encodeAddr: func(a netip.Addr) (bitkey.Key, error) {
			if !a.IsValid() || !a.Is6() || a.Is4In6() {
				return bitkey.Key{}, ErrInvalidPrefix
			}
			return bitkey.FromV6(a.As16(), 128), nil
		},
		decode: func(k bitkey.Key) netip.Prefix {
			addr, length := k.AsV6()
			return netip.PrefixFrom(netip.AddrFrom16(addr), int(length))
		},
	}
}

// codecMixed embeds IPv4 at the ::ffff:0:0/96 offset, so a single
// trie can answer both families.
func codecMixed() codec {
	return codec{
		encodePrefix: func(p netip.Prefix) (bitkey.Key, error) {
			if !p.IsValid() {
				return bitkey.Key{}, ErrInvalidPrefix
			}
			addr := p.Addr()
			if addr.Is4() {
				return bitkey.EmbedV4(addr.As4(), uint8(p.Bits())), nil
			}
			if addr.Is4In6() && p.Bits() >= 96 {
				return bitkey.EmbedV4(addr.As4(), uint8(p.Bits()-96)), nil
			}
			return bitkey.FromV6(addr.As16(), uint8(p.Bits())), nil
		},
		encodeAddr: func(a netip.Addr) (bitkey.Key, error) {
			if !a.IsValid() {
				return bitkey.Key{}, ErrInvalidPrefix
			}
			if a.Is4() || a.Is4In6() {
				return bitkey.EmbedV4(a.As4(), 32), nil
			}
			return bitkey.FromV6(a.As16(), 128), nil
		},
		decode: func(k bitkey.Key) netip.Prefix {
			if k.IsEmbeddedV4() {
				addr, length := k.AsV4()
				return netip.PrefixFrom(netip.AddrFrom4(addr), int(length))
			}
			addr, length := k.AsV6()
			return netip.PrefixFrom(netip.AddrFrom16(addr), int(length))
		},
	}
}

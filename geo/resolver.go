package geo

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	zipInText   = regexp.MustCompile(`\b\d{5}\b`)
	stateInText = regexp.MustCompile(`\b[A-Z]{2}\b`)
)

// Resolver turns location text into an Address. Successful resolutions are
// cached and concurrent lookups of the same key share one flight.
type Resolver struct {
	geocoder Geocoder
	postal   PostalLookup
	cache    Cache
	log      *zap.Logger
	group    singleflight.Group
}

func NewResolver(geocoder Geocoder, postal PostalLookup, cache Cache, log *zap.Logger) *Resolver {
	if cache == nil {
		cache = NewMemoryCache(0, 0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{geocoder: geocoder, postal: postal, cache: cache, log: log}
}

// Resolve returns the address for location, classified as country. It
// returns ErrUnresolved when no usable address can be produced.
func (r *Resolver) Resolve(ctx context.Context, location, country string) (Address, error) {
	key := CacheKey(location)
	if key == "" {
		return Address{}, errors.Wrap(ErrUnresolved, "empty location")
	}
	if addr, ok := r.cache.Get(ctx, key); ok {
		return addr, nil
	}

	ch := r.group.DoChan(key, func() (any, error) {
		flightCtx := context.WithoutCancel(ctx)
		if addr, ok := r.cache.Get(flightCtx, key); ok {
			return addr, nil
		}
		addr, err := r.resolve(flightCtx, location, country)
		if err != nil {
			return Address{}, err
		}
		r.cache.Set(flightCtx, key, addr)
		return addr, nil
	})

	select {
	case <-ctx.Done():
		return Address{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Address{}, res.Err
		}
		return res.Val.(Address), nil
	}
}

// ResolvePair resolves origin and destination concurrently.
func (r *Resolver) ResolvePair(ctx context.Context, origin, originCountry, destination, destCountry string) (Address, Address, error) {
	var from, to Address
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		from, err = r.Resolve(gctx, origin, originCountry)
		return errors.Wrap(err, "origin")
	})
	g.Go(func() error {
		var err error
		to, err = r.Resolve(gctx, destination, destCountry)
		return errors.Wrap(err, "destination")
	})
	if err := g.Wait(); err != nil {
		return Address{}, Address{}, err
	}
	return from, to, nil
}

func (r *Resolver) resolve(ctx context.Context, location, country string) (Address, error) {
	if country != "US" {
		return r.resolveInternational(ctx, location, country)
	}
	if zip := zipInText.FindString(location); zip != "" {
		return r.resolveZIP(ctx, location, zip)
	}
	return r.resolveUSText(ctx, location)
}

// resolveInternational accepts partial data; only an unreachable geocoder
// is a failure.
func (r *Resolver) resolveInternational(ctx context.Context, location, country string) (Address, error) {
	place, err := r.geocoder.Search(ctx, location)
	switch {
	case errors.Is(err, ErrNotFound):
		r.log.Info("no geocoder match, using text as city", zap.String("location", location))
		return Address{City: firstSegment(location), Country: country}, nil
	case err != nil:
		return Address{}, errors.Wrapf(ErrUnresolved, "geocode %q: %v", location, err)
	}
	addr := place.Address
	addr.Country = country
	if addr.City == "" {
		addr.City = firstSegment(location)
	}
	return addr, nil
}

func (r *Resolver) resolveZIP(ctx context.Context, location, zip string) (Address, error) {
	addr, err := r.postal.LookupZIP(ctx, zip)
	if err != nil {
		r.log.Warn("zip lookup failed, using text", zap.String("zip", zip), zap.Error(err))
		addr = Address{
			City:  strings.TrimSpace(strings.ReplaceAll(firstSegment(location), zip, "")),
			State: inlineState(location),
		}
	}
	addr.Zip = zip
	addr.Country = "US"
	return complete(addr, location)
}

func (r *Resolver) resolveUSText(ctx context.Context, location string) (Address, error) {
	place, err := r.geocoder.Search(ctx, location)
	if err != nil {
		return Address{}, errors.Wrapf(ErrUnresolved, "geocode %q: %v", location, err)
	}
	addr := place.Address
	addr.Country = "US"
	if addr.State == "" {
		addr.State = inlineState(location)
	}

	if addr.Zip == "" && place.HasCoordinates() {
		if rev, err := r.geocoder.Reverse(ctx, place.Lat, place.Lon); err == nil {
			addr.Zip = rev.Zip
		} else {
			r.log.Debug("reverse geocode failed", zap.String("location", location), zap.Error(err))
		}
	}
	if addr.Zip == "" && addr.Complete() {
		if zip, err := r.postal.LookupCity(ctx, addr.State, addr.City); err == nil {
			addr.Zip = zip
		}
	}
	if addr.Zip != "" {
		if canonical, err := r.postal.LookupZIP(ctx, addr.Zip); err == nil && canonical.Complete() {
			addr.City, addr.State = canonical.City, canonical.State
		}
	}
	return complete(addr, location)
}

func complete(addr Address, location string) (Address, error) {
	if !addr.Complete() {
		return Address{}, errors.Wrapf(ErrUnresolved, "%q lacks city or state", location)
	}
	return addr, nil
}

func firstSegment(location string) string {
	seg, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(seg)
}

// inlineState finds a two-letter US state code written in the text.
func inlineState(location string) string {
	for _, code := range stateInText.FindAllString(location, -1) {
		if usStateCodes[code] {
			return code
		}
	}
	return ""
}

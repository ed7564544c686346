package usecase

import (
	"encoding/json"
	"net/url"
	"strings"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/base/log"
	"github.com/bazaarx/goclient/domain"
	"github.com/bazaarx/goclient/service/cache"
)

type ResolverCfg struct {
	HttpReader domain.WebResourceReaderRepository
	IpfsReader domain.WebResourceReaderRepository
	// Cache is optional. Metadata is content addressed so cached entries
	// never go stale within their ttl.
	Cache cache.Service
}

type resolverImpl struct {
	httpReader domain.WebResourceReaderRepository
	ipfsReader domain.WebResourceReaderRepository
	cache      cache.Service
}

func NewResolver(cfg *ResolverCfg) domain.MetadataResolver {
	return &resolverImpl{
		httpReader: cfg.HttpReader,
		ipfsReader: cfg.IpfsReader,
		cache:      cfg.Cache,
	}
}

func (u *resolverImpl) Resolve(c bCtx.Ctx, rawUrl string) (*domain.Metadata, error) {
	if u.cache == nil {
		return u.fetch(c, rawUrl)
	}
	res := &domain.Metadata{}
	err := u.cache.GetByFunc(c, rawUrl, res, func() (interface{}, error) {
		m, err := u.fetch(c, rawUrl)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (u *resolverImpl) fetch(c bCtx.Ctx, rawUrl string) (*domain.Metadata, error) {
	data, err := u.get(c, rawUrl)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		c.WithField("url", rawUrl).Error("invalid json")
		return nil, domain.ErrInvalidJsonFormat
	}
	res := &domain.Metadata{}
	if err := json.Unmarshal(data, res); err != nil {
		c.WithFields(log.Fields{
			"url": rawUrl,
			"err": err,
		}).Error("failed to unmarshal metadata")
		return nil, err
	}
	return res, nil
}

func (u *resolverImpl) get(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	pUrl, err := url.Parse(rawUrl)
	if err != nil {
		c.WithFields(log.Fields{
			"url": rawUrl,
			"err": err,
		}).Error("failed to parse url")
		return nil, err
	}

	var data []byte
	switch pUrl.Scheme {
	case "https", "http":
		data, err = u.httpReader.Get(c, rawUrl)
	case "ipfs":
		cid := strings.TrimPrefix(rawUrl, "ipfs://")
		cid = strings.TrimPrefix(cid, "ipfs/")
		data, err = u.ipfsReader.Get(c, cid)
	default:
		return nil, domain.ErrUnsupportedSchema
	}

	if err != nil {
		c.WithFields(log.Fields{
			"schema": pUrl.Scheme,
			"url":    rawUrl,
			"err":    err,
		}).Error("failed to fetch")
		return nil, err
	}
	return data, nil
}

package repository

import (
	"io/ioutil"
	"time"

	ipfsapi "github.com/ipfs/go-ipfs-api"

	bCtx "github.com/bazaarx/goclient/base/ctx"
	"github.com/bazaarx/goclient/domain"
)

type ipfsReaderRepo struct {
	shell      *ipfsapi.Shell
	ctxTimeout time.Duration
}

func NewIpfsReaderRepo(s *ipfsapi.Shell, timeout time.Duration) domain.WebResourceReaderRepository {
	return &ipfsReaderRepo{shell: s, ctxTimeout: timeout}
}

func (r *ipfsReaderRepo) Get(c bCtx.Ctx, cid string) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(c, r.ctxTimeout)
	defer cancel()
	resp, err := r.shell.Request("cat", cid).Send(ctx)
	if err != nil {
		c.WithField("err", err).Error("shell.Request failed")
		return nil, err
	}
	if resp.Error != nil {
		c.WithField("resp.Error", resp.Error).Error("shell.Request failed")
		return nil, resp.Error
	}
	defer resp.Output.Close()
	return ioutil.ReadAll(resp.Output)
}

package db

import (
	"strings"
	"time"

	"github.com/qiniu/x/xlog"
	"github.com/solutions/interview-coach/internal/common/utils"
	model "github.com/solutions/interview-coach/internal/protodef/model"
	dao "github.com/solutions/interview-coach/internal/service/db/dao"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// AccountService syncs and reads account records keyed by provider uid.
type AccountService struct {
	mongoClient *mgo.Session
	accountColl *mgo.Collection
	xl          *xlog.Logger
}

func NewAccountService(conf utils.MongoConfig, xl *xlog.Logger) (*AccountService, error) {
	if xl == nil {
		xl = xlog.New("interview-coach-account-db")
	}
	mongoClient, err := mgo.Dial(conf.URI + "/" + conf.Database)
	if err != nil {
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	accountColl := mongoClient.DB(conf.Database).C(dao.CollectionAccount)
	return &AccountService{
		mongoClient: mongoClient,
		accountColl: accountColl,
		xl:          xl,
	}, nil
}

// GetAccountByID looks an account up by provider uid.
func (c *AccountService) GetAccountByID(xl *xlog.Logger, id string) (*model.AccountDo, error) {
	if xl == nil {
		xl = c.xl
	}
	account := model.AccountDo{}
	err := c.accountColl.FindId(id).One(&account)
	if err != nil {
		if err == mgo.ErrNotFound {
			xl.Infof("no such account %s", id)
			return nil, mgo.ErrNotFound
		}
		xl.Errorf("failed to get account %s, error %v", id, err)
		return nil, err
	}
	return &account, nil
}

// SyncAccount upserts the account for an authenticated identity and bumps
// its last login time. First sight also sets the register time.
func (c *AccountService) SyncAccount(xl *xlog.Logger, claims *model.IdentityClaims) (*model.AccountDo, error) {
	if xl == nil {
		xl = c.xl
	}
	now := time.Now()
	account, err := c.GetAccountByID(xl, claims.UserID)
	if err != nil {
		if err != mgo.ErrNotFound {
			return nil, err
		}
		account = &model.AccountDo{
			ID:           claims.UserID,
			Email:        claims.Email,
			Nickname:     nicknameFromEmail(claims.Email),
			RegisterTime: now,
		}
		account.LastLoginTime = now
		if insertErr := c.accountColl.Insert(account); insertErr != nil {
			xl.Errorf("failed to insert account %s, error %v", claims.UserID, insertErr)
			return nil, insertErr
		}
		return account, nil
	}
	update := bson.M{"lastLoginTime": now}
	if claims.Email != "" && claims.Email != account.Email {
		update["email"] = claims.Email
		account.Email = claims.Email
	}
	if err := c.accountColl.Update(bson.M{"_id": claims.UserID}, bson.M{"$set": update}); err != nil {
		// failing to bump login time does not block the request
		xl.Errorf("failed to update account %s login time, error %v", claims.UserID, err)
	}
	account.LastLoginTime = now
	return account, nil
}

func nicknameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	if email != "" {
		return email
	}
	return "candidate"
}

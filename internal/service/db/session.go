package db

import (
	"time"

	"github.com/qiniu/x/xlog"
	"github.com/solutions/interview-coach/internal/common/utils"
	model "github.com/solutions/interview-coach/internal/protodef/model"
	dao "github.com/solutions/interview-coach/internal/service/db/dao"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// SessionService stores interview sessions and their transcripts.
type SessionService struct {
	mongoClient *mgo.Session
	sessionColl *mgo.Collection
	xl          *xlog.Logger
}

func NewSessionService(conf utils.MongoConfig, xl *xlog.Logger) (*SessionService, error) {
	if xl == nil {
		xl = xlog.New("interview-coach-session-db")
	}
	mongoClient, err := mgo.Dial(conf.URI + "/" + conf.Database)
	if err != nil {
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	sessionColl := mongoClient.DB(conf.Database).C(dao.CollectionSession)
	return &SessionService{
		mongoClient: mongoClient,
		sessionColl: sessionColl,
		xl:          xl,
	}, nil
}

// CreateSession inserts a new interview session.
func (c *SessionService) CreateSession(xl *xlog.Logger, session *model.SessionDo) (*model.SessionDo, error) {
	if xl == nil {
		xl = c.xl
	}
	session.CreateTime = time.Now()
	session.UpdateTime = session.CreateTime
	session.Status = int(model.SessionStatusCodeActive)
	if err := c.sessionColl.Insert(session); err != nil {
		xl.Errorf("failed to insert session, error %v", err)
		return nil, err
	}
	return session, nil
}

// GetSessionByID looks a session up by ID.
func (c *SessionService) GetSessionByID(xl *xlog.Logger, sessionID string) (*model.SessionDo, error) {
	if xl == nil {
		xl = c.xl
	}
	session := model.SessionDo{}
	err := c.sessionColl.FindId(sessionID).One(&session)
	if err != nil {
		if err == mgo.ErrNotFound {
			xl.Infof("no such session %s", sessionID)
			return nil, mgo.ErrNotFound
		}
		xl.Errorf("failed to get session %s, error %v", sessionID, err)
		return nil, err
	}
	return &session, nil
}

// UpdateSession writes the full session document back.
func (c *SessionService) UpdateSession(xl *xlog.Logger, session *model.SessionDo) (*model.SessionDo, error) {
	if xl == nil {
		xl = c.xl
	}
	session.UpdateTime = time.Now()
	if err := c.sessionColl.Update(bson.M{"_id": session.ID}, bson.M{"$set": session}); err != nil {
		xl.Errorf("failed to update session %s, error %v", session.ID, err)
		return nil, err
	}
	return session, nil
}

// EndSession marks a session ended and stamps the end time.
func (c *SessionService) EndSession(xl *xlog.Logger, session *model.SessionDo) (*model.SessionDo, error) {
	session.Status = int(model.SessionStatusCodeEnded)
	session.EndTime = time.Now()
	return c.UpdateSession(xl, session)
}

// ListSessionsByPage lists one page of a user's sessions, newest first.
func (c *SessionService) ListSessionsByPage(xl *xlog.Logger, userID string, pageNum int, pageSize int) ([]model.SessionDo, int, error) {
	if xl == nil {
		xl = c.xl
	}
	if pageNum <= 0 {
		pageNum = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	query := bson.M{"userId": userID}
	total, err := c.sessionColl.Find(query).Count()
	if err != nil {
		xl.Errorf("failed to count sessions of user %s, error %v", userID, err)
		return nil, 0, err
	}
	sessions := []model.SessionDo{}
	err = c.sessionColl.Find(query).Sort("-createTime").Skip((pageNum - 1) * pageSize).Limit(pageSize).All(&sessions)
	if err != nil {
		xl.Errorf("failed to list sessions of user %s, error %v", userID, err)
		return nil, 0, err
	}
	return sessions, total, nil
}

// CountActiveSessions active session count, reported by the health endpoint.
func (c *SessionService) CountActiveSessions(xl *xlog.Logger) (int, error) {
	if xl == nil {
		xl = c.xl
	}
	count, err := c.sessionColl.Find(bson.M{"status": model.SessionStatusCodeActive}).Count()
	if err != nil {
		xl.Errorf("failed to count active sessions, error %v", err)
		return 0, err
	}
	return count, nil
}

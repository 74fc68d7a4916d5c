package task

import (
	"time"

	"github.com/qiniu/x/log"
	"github.com/solutions/interview-coach/internal/common/utils"
	model "github.com/solutions/interview-coach/internal/protodef/model"
	dao "github.com/solutions/interview-coach/internal/service/db/dao"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// SessionJanitor expires stale interview sessions and purges finished ones
// after a grace period.
type SessionJanitor struct {
	mongoClient *mgo.Session
	sessionColl *mgo.Collection
	maxAge      time.Duration
	endedTTL    time.Duration
}

func NewSessionJanitor(conf utils.Config) (*SessionJanitor, error) {
	mongoClient, err := mgo.Dial(conf.Mongo.URI + "/" + conf.Mongo.Database)
	if err != nil {
		log.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	maxAgeHour := 24
	endedTTLMinute := 60
	if conf.Session != nil {
		if conf.Session.MaxAgeHour > 0 {
			maxAgeHour = conf.Session.MaxAgeHour
		}
		if conf.Session.EndedTTLMinute > 0 {
			endedTTLMinute = conf.Session.EndedTTLMinute
		}
	}
	return &SessionJanitor{
		mongoClient: mongoClient,
		sessionColl: mongoClient.DB(conf.Mongo.Database).C(dao.CollectionSession),
		maxAge:      time.Duration(maxAgeHour) * time.Hour,
		endedTTL:    time.Duration(endedTTLMinute) * time.Minute,
	}, nil
}

// StartExpireTask expires active sessions that outlived the max age.
func (t *SessionJanitor) StartExpireTask() {
	deadline := time.Now().Add(-t.maxAge)
	now := time.Now()
	change, err := t.sessionColl.UpdateAll(
		bson.M{
			"status":     model.SessionStatusCodeActive,
			"createTime": bson.M{"$lt": deadline},
		},
		bson.M{"$set": bson.M{
			"status":     model.SessionStatusCodeExpired,
			"endTime":    now,
			"updateTime": now,
		}},
	)
	if err != nil {
		log.Errorf("StartExpireTask update sessions, error %v", err)
		return
	}
	if change.Updated > 0 {
		log.Infof("StartExpireTask expired %d stale sessions", change.Updated)
	}
}

// StartPurgeTask removes ended/expired sessions after the grace period so
// transcripts don't linger indefinitely.
func (t *SessionJanitor) StartPurgeTask() {
	deadline := time.Now().Add(-t.endedTTL)
	change, err := t.sessionColl.RemoveAll(
		bson.M{
			"status":  bson.M{"$ne": model.SessionStatusCodeActive},
			"endTime": bson.M{"$lt": deadline},
		},
	)
	if err != nil {
		log.Errorf("StartPurgeTask remove sessions, error %v", err)
		return
	}
	if change.Removed > 0 {
		log.Infof("StartPurgeTask removed %d finished sessions", change.Removed)
	}
}

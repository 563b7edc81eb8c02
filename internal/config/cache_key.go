package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamContextSessionKey holds the jti of the exam-context token issued to a
// candidate for one access code. Deleting it logs the candidate out of the exam.
func (r *CacheKeyStruct) ExamContextSessionKey(email, code string) string {
	return fmt.Sprintf("candidate:%s:exam:%s:session", email, code)
}

// LoginSessionKey holds the jti of the regular login token.
func (r *CacheKeyStruct) LoginSessionKey(email string) string {
	return fmt.Sprintf("login:%s", email)
}

// ActiveInterviewKey marks a candidate as having a live interview machine.
func (r *CacheKeyStruct) ActiveInterviewKey(email string) string {
	return fmt.Sprintf("candidate:%s:active_interview", email)
}

// ExamConfigKey returns the cache key for an exam's immutable configuration
func (r *CacheKeyStruct) ExamConfigKey(code string) string {
	return fmt.Sprintf("exam:%s:config", code)
}

// ExamMonitorChannel returns the Redis PubSub channel name for an exam monitor
func (r *CacheKeyStruct) ExamMonitorChannel(code string) string {
	return fmt.Sprintf("exam:%s:monitor", code)
}

// ExamLiveKey is a hash of candidate email to the latest monitor event for
// every live session of an exam.
func (r *CacheKeyStruct) ExamLiveKey(code string) string {
	return fmt.Sprintf("exam:%s:live", code)
}

var CacheKey = NewCacheKeyStruct()

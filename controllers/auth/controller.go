// Package auth implements registration, login and phone OTP verification.
package auth

import (
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/Saipreetham0/ksp-project-sub001/middleware"
	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

// Indian mobile numbers without the country code.
var rePhone = regexp.MustCompile(`^[6-9][0-9]{9}$`)

const accessTokenTTL = 24 * time.Hour

type Controller struct {
	db             *gorm.DB
	otp            *utils.MSG91Client
	otpLimiter     *middleware.OTPRateLimiter
	trustedProxies string
}

func NewController(db *gorm.DB, otp *utils.MSG91Client, otpLimiter *middleware.OTPRateLimiter, trustedProxies string) *Controller {
	return &Controller{
		db:             db,
		otp:            otp,
		otpLimiter:     otpLimiter,
		trustedProxies: trustedProxies,
	}
}

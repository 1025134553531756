package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/statusdeck/statusdeck/internal/domain"
	"github.com/statusdeck/statusdeck/internal/otp"
)

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type OTPHandler struct {
	verifier *otp.Verifier
}

func NewOTPHandler(verifier *otp.Verifier) *OTPHandler {
	return &OTPHandler{verifier: verifier}
}

func (h *OTPHandler) SendOTP(ctx *gin.Context) {
	var body SendOTPRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	if err := h.verifier.Issue(body.Email); err != nil {
		if errors.Is(err, domain.ErrDelivery) {
			log.Printf("OTP delivery failed for %s: %v", body.Email, err)
		} else {
			log.Printf("Failed to issue OTP for %s: %v", body.Email, err)
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send OTP"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

func (h *OTPHandler) VerifyOTP(ctx *gin.Context) {
	var body VerifyOTPRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required"})
		return
	}

	valid, err := h.verifier.Verify(body.Email, body.OTP)

	if err != nil {
		log.Printf("Failed to verify OTP for %s: %v", body.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to verify OTP"})
		return
	}

	if !valid {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "OTP verified successfully"})
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/Zin-Mg-Nyunt/shopping/app/services"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/bind"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/database"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/response"
)

// PasswordResetController drives the three-step OTP reset flow:
// request a code by email, trade the code for a one-time proof,
// trade the proof for a new password.
type PasswordResetController struct {
	service *services.PasswordResetService
}

func NewPasswordResetController(proofs services.ProofStore) *PasswordResetController {
	return &PasswordResetController{
		service: services.NewPasswordResetService(database.DB, proofs),
	}
}

type requestOtpInput struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestOtp emails a fresh verification code to the account's address.
// Re-requesting replaces any pending code.
func (c *PasswordResetController) RequestOtp(w http.ResponseWriter, r *http.Request) {
	var input requestOtpInput
	if errs, err := bind.JSON(r, &input); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	expiresAt, err := c.service.RequestOtp(input.Email)
	if err != nil {
		if errors.Is(err, services.ErrUnknownEmail) {
			response.ValidationError(w, map[string]string{"email": "The selected email is invalid."})
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not send verification code")
		return
	}

	response.Success(w, map[string]interface{}{
		"message":    "We sent a verification code to your email",
		"expires_at": expiresAt,
	})
}

type verifyOtpInput struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required,digits=6"`
}

// VerifyOtp checks the emailed code and, when it matches, returns a
// single-use proof token for the reset step.
func (c *PasswordResetController) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var input verifyOtpInput
	if errs, err := bind.JSON(r, &input); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	proof, err := c.service.VerifyOtp(input.Email, input.Otp)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOtp):
			response.ValidationError(w, map[string]string{"otp": "The verification code is incorrect."})
		case errors.Is(err, services.ErrExpiredOtp):
			response.ValidationError(w, map[string]string{"otp": "The verification code has expired."})
		default:
			response.Error(w, http.StatusInternalServerError, "Could not verify code")
		}
		return
	}

	response.Success(w, map[string]interface{}{"reset_token": proof})
}

type resetPasswordInput struct {
	ResetToken           string `json:"reset_token" validate:"required"`
	Password             string `json:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// Reset sets a new password in exchange for a valid proof token.
func (c *PasswordResetController) Reset(w http.ResponseWriter, r *http.Request) {
	var input resetPasswordInput
	if errs, err := bind.JSON(r, &input); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.ResetPassword(input.ResetToken, input.Password); err != nil {
		if errors.Is(err, services.ErrInvalidProof) {
			response.Error(w, http.StatusUnprocessableEntity, "The reset link is invalid or has expired")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not reset password")
		return
	}
	response.Message(w, "Your password has been reset")
}

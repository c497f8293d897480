package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/healthbridge/backend/models"
	"github.com/healthbridge/backend/services"
	"github.com/spf13/cobra"
)

func createCmd(connect connectFunc) *cobra.Command {
	var input services.RegisterDoctorInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new doctor",
		Long: `Register a new doctor account. The email must not belong to another doctor.

Examples:
  doctor-admin create --name "Dr. A" --email a@clinic.example
  doctor-admin create --name "Dr. A" --email a@clinic.example --hospital hosp-1 --phone +14155550100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			doctor, err := svc.Register(cmd.Context(), input)
			if err != nil {
				return describe(err)
			}
			return printDoctor(cmd.OutOrStdout(), doctor)
		},
	}

	cmd.Flags().StringVarP(&input.Name, "name", "n", "", "Doctor display name")
	cmd.Flags().StringVarP(&input.Email, "email", "e", "", "Login email, unique per doctor")
	cmd.Flags().StringVarP(&input.Specialization, "specialization", "s", "", "Medical specialization")
	cmd.Flags().StringVar(&input.Phone, "phone", "", "Phone number in E.164 format")
	cmd.Flags().StringVar(&input.HospitalID, "hospital", "", "Affiliated hospital ID")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func showCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a doctor's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			doctor, err := svc.GetProfile(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			return printDoctor(cmd.OutOrStdout(), doctor)
		},
	}
}

func printDoctor(w io.Writer, doctor *models.Doctor) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doctor)
}

// describe turns domain errors into one-line messages and keeps the chain intact
func describe(err error) error {
	switch services.GetErrorType(err) {
	case services.ErrorTypeValidation:
		return fmt.Errorf("invalid input %v: %w", services.GetErrorDetails(err), err)
	case services.ErrorTypeConflict:
		return fmt.Errorf("a doctor with that email already exists: %w", err)
	case services.ErrorTypeNotFound:
		return fmt.Errorf("no such doctor: %w", err)
	default:
		return err
	}
}

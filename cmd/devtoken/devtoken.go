// Command devtoken mints bearer tokens signed with JWT_SECRET for local
// development and manual API testing. It refuses to run in production.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/drivers/logger"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/utils"
)

func main() {
	subject := flag.String("sub", "", "actor id placed in the token subject")
	role := flag.String("role", constvars.RolePatient, "actor role: patient, doctor or admin")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	internalConfig := config.NewInternalConfig()
	log := logger.NewLogrusLogger(internalConfig)
	// stdout carries only the token so it can be captured by shell scripts.
	log.SetOutput(os.Stderr)

	if internalConfig.App.Env == constvars.AppEnvProduction {
		log.Fatal("Refusing to mint development tokens in production")
	}
	if *subject == "" {
		log.Fatal("Missing -sub")
	}
	switch *role {
	case constvars.RolePatient, constvars.RoleDoctor, constvars.RoleAdmin:
	default:
		log.Fatalf("Unknown role %q", *role)
	}

	token, err := utils.GenerateAccessToken(*subject, *role, internalConfig.JWT.Secret, *ttl)
	if err != nil {
		log.Fatalf("Error signing token: %v", err)
	}
	log.WithField("role", *role).WithField("ttl", ttl.String()).Infof("Minted token for %s", *subject)
	fmt.Println(token)
}

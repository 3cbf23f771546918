package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/cryptox"
)

// getSimpleText, getPassword, and confirm are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var confirm = Confirm

// Register prompts for a username and password and creates a new account.
//
// The password never leaves the process: a random salt and a derived
// verifier are sent instead. The password and master key byte slices are
// wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	salt := common.GenerateRandByteArray(16)
	masterKey := cryptox.DeriveMasterKey(password, salt)
	defer common.WipeByteArray(masterKey)

	if err := a.session.Client().Register(ctx, userName, salt, cryptox.MakeVerifier(masterKey)); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Success! You can now log in.")
	return nil
}

// Login prompts for credentials, fetches the account salt, and
// authenticates with the derived verifier. On success the user name is
// remembered for the prompt and browsing starts at the data root.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	salt, err := a.session.Client().GetSalt(ctx, userName)
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	masterKey := cryptox.DeriveMasterKey(password, salt)
	defer common.WipeByteArray(masterKey)

	if err := a.session.Client().Login(ctx, userName, cryptox.MakeVerifier(masterKey)); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	a.userName = userName
	a.nav.Reset()
	log.Printf("Login successful")
	return nil
}

// Logout drops the tokens, wipes the cached data key, and resets the
// browsing position.
func (a *App) Logout(ctx context.Context) error {
	a.session.Client().Logout()
	a.session.ForgetSecurityKey()
	a.userName = ""
	a.nav.Reset()
	fmt.Println("Logged out")
	return nil
}

// Ping checks server reachability.
func (a *App) Ping(ctx context.Context) error {
	if err := a.session.Client().Ping(ctx); err != nil {
		log.Printf("Server unavailable: %s", err.Error())
		return err
	}
	fmt.Println("Server is up")
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

func cmdLogin(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return fmt.Errorf("both -u and -p are required")
	}
	resp, err := a.sess.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	if resp.User != nil {
		fmt.Fprintf(a.out, "Signed in as %s (%s)\n", resp.User.Username, resp.User.Role)
	} else {
		fmt.Fprintln(a.out, "Signed in")
	}
	return nil
}

func cmdLogout(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.sess.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func cmdRegister(ctx context.Context, a *app, fs *flag.FlagSet, args []string) error {
	var req dto.RegisterRequest
	role := fs.String("role", string(models.Citizen), "CITIZEN, RECYCLER or AUTHORITY")
	fs.StringVar(&req.Username, "username", "", "username")
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.Password, "password", "", "password")
	fs.StringVar(&req.FirstName, "first", "", "first name")
	fs.StringVar(&req.LastName, "last", "", "last name")
	fs.StringVar(&req.Address, "address", "", "street address")
	fs.StringVar(&req.PhoneNumber, "phone", "", "phone number")
	fs.StringVar(&req.WardID, "ward", "", "ward id (citizens only)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.Role = models.Role(*role)

	resp, err := a.sess.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.Message)
	fmt.Fprintln(a.out, "Run `clevo login` to sign in.")
	return nil
}

func cmdWhoami(_ context.Context, a *app, fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.sess.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	u := a.sess.User()
	if u == nil {
		fmt.Fprintln(a.out, "Signed in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\nRole:   %s\nName:   %s\nActive: %t\n", u.Username, u.Email, u.Role, u.Name(), u.Active)
	return nil
}

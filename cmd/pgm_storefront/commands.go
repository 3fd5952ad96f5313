package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"pgm_storefront/internal/adapter"
	"pgm_storefront/internal/app"
	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/lib/logger/sl"
	"pgm_storefront/internal/services/auth"
)

var errUsage = errors.New("usage")

const usage = `usage: pgm_storefront [--config path] <command> [args]

commands:
  login <username|email> <password>   sign in and merge the guest cart
  logout                              sign out and drop the guest cart
  whoami                              show the restored session
  products [category]                 list products
  product <id>                        show one product
  cart                                show the server or guest cart
  serve                               run the storefront gateway`

func run(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "login":
		if len(rest) != 2 {
			return errUsage
		}
		return login(ctx, a, rest[0], rest[1], out)
	case "logout":
		return logout(ctx, a, out)
	case "whoami":
		return whoami(ctx, a, out)
	case "products":
		category := ""
		if len(rest) > 0 {
			category = rest[0]
		}
		return listProducts(ctx, a, category, out)
	case "product":
		if len(rest) != 1 {
			return errUsage
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", rest[0])
		}
		return showProduct(ctx, a, id, out)
	case "cart":
		return showCart(ctx, a, out)
	case "serve":
		return serve(ctx, a)
	default:
		return errUsage
	}
}

func login(ctx context.Context, a *app.App, usernameOrEmail, password string, out io.Writer) error {
	sess, err := a.Auth.SignIn(ctx, usernameOrEmail, password)
	if err != nil {
		return err
	}

	printSession(out, sess)

	return nil
}

func logout(ctx context.Context, a *app.App, out io.Writer) error {
	if err := a.Auth.Logout(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, "signed out")

	return nil
}

func whoami(ctx context.Context, a *app.App, out io.Writer) error {
	expired := a.Tokens.AccessTokenExpired(ctx)

	sess, err := a.Auth.Restore(ctx)
	if err != nil {
		return err
	}

	printSession(out, sess)
	if expired && sess.IsAuthenticated {
		fmt.Fprintln(out, "access token had expired and was renewed")
	}

	return nil
}

func printSession(out io.Writer, sess auth.Session) {
	if !sess.IsAuthenticated {
		fmt.Fprintln(out, color.YellowString("not signed in"))
		return
	}

	name := "unknown user"
	if sess.User != nil {
		name = fmt.Sprintf("%s (id %d)", sess.User.Email, sess.User.ID)
	}
	fmt.Fprintln(out, color.GreenString("signed in:"), name)

	if p := sess.AssociateProfile; p != nil {
		fmt.Fprintf(out, "associate: %s, referral code %s\n", p.Status, p.ReferralCode)
	}
}

func listProducts(ctx context.Context, a *app.App, category string, out io.Writer) error {
	res := a.Services.Product.ListProducts(ctx)
	if category != "" {
		res = a.Services.Product.ProductsByCategory(ctx, category)
	}
	if !res.Success {
		return resultError(res.Error, res.Status)
	}

	data, err := adapter.DecodeList[models.ProductData](*res.Data)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRICE\tIN STOCK")
	for _, p := range a.ProductAdapter.AdaptAll(data) {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%t\n", p.ID, p.Title, p.Price, p.InStock)
	}

	return w.Flush()
}

func showProduct(ctx context.Context, a *app.App, id int64, out io.Writer) error {
	res := a.Services.Product.GetProduct(ctx, id)
	if !res.Success {
		return resultError(res.Error, res.Status)
	}

	data, err := adapter.DecodeRecord[models.ProductData](*res.Data)
	if err != nil {
		return err
	}

	p := a.ProductAdapter.Adapt(*data)
	fmt.Fprintln(out, color.CyanString(p.Title))
	fmt.Fprintf(out, "id: %s\nprice: %.2f\nrating: %.1f (%d reviews)\nin stock: %t\n", p.ID, p.Price, p.Rating, p.ReviewCount, p.InStock)
	if p.Description != "" {
		fmt.Fprintln(out, p.Description)
	}

	return nil
}

func showCart(ctx context.Context, a *app.App, out io.Writer) error {
	sess, err := a.Auth.Restore(ctx)
	if err != nil {
		return err
	}

	var items []models.CartItem

	if sess.IsAuthenticated && sess.User != nil {
		res := a.Services.Cart.CartByUser(ctx, sess.User.ID, "")
		if !res.Success {
			return resultError(res.Error, res.Status)
		}
		if items, err = adapter.NormalizeCart(*res.Data); err != nil {
			return err
		}
	} else {
		if items, err = a.Repository.Cart.GuestCart(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, color.YellowString("guest cart"))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tQTY\tPRICE")
	var total float64
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%d\t%.2f\n", item.ProductID, item.Quantity, item.Price)
		total += item.Price * float64(item.Quantity)
	}
	fmt.Fprintf(w, "\t\t%.2f\n", total)

	return w.Flush()
}

func serve(ctx context.Context, a *app.App) error {
	const op = "main.serve"

	log := a.Log().With(slog.String("op", op))

	if _, err := a.Auth.Restore(ctx); err != nil {
		log.Warn("session restore failed", sl.Err(err))
	}

	go func() {
		if err := a.Auth.Run(ctx); err != nil {
			log.Error("session watcher stopped", sl.Err(err))
		}
	}()

	a.HTTPServer.BuildRouters()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.HTTPServer.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := a.HTTPServer.Stop(); err != nil {
		return err
	}

	log.Info("Gracefully stopped")

	return nil
}

func resultError(message string, status int) error {
	if status == 0 {
		return errors.New(message)
	}
	return fmt.Errorf("%s (status %d)", message, status)
}

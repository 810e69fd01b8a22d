package cli

import (
	"context"
	"fmt"
)

func (a *App) runLogin(ctx context.Context, args []string) error {
	positional, err := parseArgs(a.flagSet("login"), args)
	if err != nil {
		return err
	}
	if err := expectArgs(positional, 2, "login <email> <senha>"); err != nil {
		return err
	}

	if err := a.Session.Login(ctx, positional[0], positional[1]); err != nil {
		return err
	}

	user, _ := a.Session.User()
	fmt.Fprintf(a.Out, "Bem-vindo, %s!\n", user.Name)
	if user.IsAdmin {
		fmt.Fprintln(a.Out, "Acesso de administrador liberado.")
	}
	return nil
}

func (a *App) runLogout(ctx context.Context, args []string) error {
	if _, err := parseArgs(a.flagSet("logout"), args); err != nil {
		return err
	}
	if err := a.Session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.Out, "Sessão encerrada.")
	return nil
}

func (a *App) runWhoami(ctx context.Context, args []string) error {
	if _, err := parseArgs(a.flagSet("whoami"), args); err != nil {
		return err
	}

	user, ok := a.Session.User()
	if !ok {
		fmt.Fprintln(a.Out, "Não autenticado.")
		return nil
	}

	role := "cliente"
	if user.IsAdmin {
		role = "administrador"
	}
	fmt.Fprintf(a.Out, "%s <%s> (%s)\n", user.Name, user.Email, role)
	return nil
}

// runBuy refuses to talk to the backend without a session, the CLI
// counterpart of the storefront sending the visitor to the login page.
func (a *App) runBuy(ctx context.Context, args []string) error {
	fs := a.flagSet("buy")
	qty := fs.Int("qty", 1, "quantidade")
	var accessories stringList
	fs.Var(&accessories, "acessorio", "id de acessório (repita para vários)")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(positional, 1, "buy <productId> [--qty n] [--acessorio id]..."); err != nil {
		return err
	}

	if !a.Session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	result, err := a.Purchases.Purchase(ctx, a.Session.Token(), positional[0], *qty, accessories)
	if err != nil {
		return err
	}

	message := result.Message
	if message == "" {
		message = "Compra confirmada"
	}
	fmt.Fprintf(a.Out, "%s. Estoque restante: %d\n", message, result.RemainingStock)
	return nil
}

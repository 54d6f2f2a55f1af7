package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/noah-isme/toko-loyalty/internal/checkout"
	"github.com/noah-isme/toko-loyalty/internal/common"
)

var errNotANumber = errors.New("not a number")

type console struct {
	svc *checkout.Service
	in  *bufio.Scanner
	out io.Writer
}

func newConsole(svc *checkout.Service, in io.Reader, out io.Writer) *console {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	return &console{svc: svc, in: scanner, out: out}
}

// run loops over the menu until the user exits or input ends.
func (c *console) run(ctx context.Context) error {
	for {
		c.menu()
		fmt.Fprint(c.out, "Enter your choice: ")
		choice, err := c.readInt()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(c.out, "Invalid input! Please enter a number.")
			continue
		}
		switch choice {
		case 1:
			err = c.processTransaction(ctx)
		case 2:
			c.displayPoints()
		case 3:
			fmt.Fprintln(c.out, "Exiting...")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice!")
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, errNotANumber) {
			fmt.Fprintln(c.out, "Invalid input! Please enter a number.")
		} else if err != nil {
			return err
		}
	}
}

func (c *console) menu() {
	fmt.Fprintln(c.out, "Retail Company Menu:")
	fmt.Fprintln(c.out, "1. Process Transaction")
	fmt.Fprintln(c.out, "2. Display Customer Points")
	fmt.Fprintln(c.out, "3. Exit")
	fmt.Fprintln(c.out)
}

func (c *console) processTransaction(ctx context.Context) error {
	products := c.svc.Products()
	fmt.Fprintln(c.out, "Product List:")
	for _, p := range products {
		fmt.Fprintf(c.out, "%d. %s - $%s\n", p.Position, p.Name, p.Price.StringFixed(2))
	}
	fmt.Fprintln(c.out)

	customers := c.svc.Customers()
	fmt.Fprintln(c.out, "Customer List:")
	for _, cu := range customers {
		fmt.Fprintf(c.out, "%d. %s\n", cu.Position, cu.Name)
	}
	fmt.Fprintln(c.out)

	fmt.Fprint(c.out, "Select a customer (enter the corresponding number): ")
	customer, err := c.readInt()
	if err != nil {
		return err
	}
	if customer < 1 || customer > len(customers) {
		fmt.Fprintln(c.out, "Invalid customer choice!")
		return nil
	}

	fmt.Fprint(c.out, "Enter the product number: ")
	product, err := c.readInt()
	if err != nil {
		return err
	}
	if product < 1 || product > len(products) {
		fmt.Fprintln(c.out, "Invalid product choice!")
		return nil
	}

	fmt.Fprint(c.out, "Enter the product amount: ")
	amount, err := c.readInt()
	if err != nil {
		return err
	}
	if amount <= 0 {
		fmt.Fprintln(c.out, "Invalid product amount!")
		return nil
	}

	inv, err := c.svc.Process(ctx, checkout.Input{
		Customer: customer,
		Items:    []checkout.ItemInput{{Product: product, Quantity: amount}},
	})
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			fmt.Fprintln(c.out, appErr.Message)
			return nil
		}
		return err
	}
	fmt.Fprintf(c.out, "Total Payment: $%s\n", inv.Total.StringFixed(2))
	fmt.Fprintln(c.out)
	return nil
}

func (c *console) displayPoints() {
	fmt.Fprintln(c.out, "Customer Points:")
	for _, cu := range c.svc.Customers() {
		fmt.Fprintf(c.out, "%s - %s points\n", cu.Name, cu.TotalPoints.String())
	}
	fmt.Fprintln(c.out)
}

func (c *console) readInt() (int, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	v, err := strconv.Atoi(c.in.Text())
	if err != nil {
		return 0, errNotANumber
	}
	return v, nil
}

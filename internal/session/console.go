package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/centromex/donorlog/internal/ledger"
)

const menu = `
=== Blood Donation Log System ===
1. Add new donor donation
2. Check eligibility of donors
3. Show donor summary
4. Export data to CSV
5. Exit`

// Console runs the interactive menu over a line-oriented reader and writer.
type Console struct {
	ctrl *Controller
	in   *bufio.Scanner
	out  io.Writer
}

func NewConsole(ctrl *Controller, in io.Reader, out io.Writer) *Console {
	return &Console{ctrl: ctrl, in: bufio.NewScanner(in), out: out}
}

// Run serves menu commands until the user exits or input ends. Both paths
// export the ledger before returning.
func (c *Console) Run() error {
	for {
		fmt.Fprintln(c.out, menu)
		choice, err := c.readLine("Choose an option: ")
		if err != nil {
			return c.exit()
		}

		switch choice {
		case "1":
			if err := c.addDonation(); errors.Is(err, io.EOF) {
				return c.exit()
			}
		case "2":
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, FormatEligibility(c.ctrl.Eligibility()))
		case "3":
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, FormatSummary(c.ctrl.Summaries()))
		case "4":
			c.export()
		case "5":
			return c.exit()
		default:
			fmt.Fprintln(c.out, "Invalid choice. Please try again.")
		}
	}
}

func (c *Console) exit() error {
	if err := c.ctrl.Export(); err != nil {
		fmt.Fprintf(c.out, "Export failed: %v\n", err)
		return err
	}
	fmt.Fprintln(c.out, "All records and summaries exported.")
	fmt.Fprintln(c.out, "Thank you for using the Blood Donation Log System.")
	return nil
}

func (c *Console) export() {
	if err := c.ctrl.Export(); err != nil {
		fmt.Fprintf(c.out, "Export failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "All records and summaries exported.")
}

// addDonation collects one donation. Only io.EOF is returned; every other
// problem is reported and the command abandoned.
func (c *Console) addDonation() error {
	raw, err := c.readLine("Enter donor's name: ")
	if err != nil {
		return err
	}
	name := ledger.NormalizeName(raw)
	if name == "" {
		fmt.Fprintln(c.out, "Donor name cannot be empty.")
		return nil
	}

	if v := c.ctrl.Check(name); !v.Eligible {
		fmt.Fprintln(c.out, v.Message)
		return nil
	}

	in := DonationInput{Name: name}
	if group, ok := c.ctrl.KnownBloodGroup(name); ok {
		fmt.Fprintf(c.out, "Blood group for %s found as %s.\n", name, group)
	} else {
		in.BloodGroup, err = c.ask("Enter blood group (e.g., A+, O-): ", func(s string) error {
			_, err := ledger.ParseBloodGroup(s)
			return err
		})
		if err != nil {
			return err
		}
	}

	today := c.ctrl.Today()
	in.Date, err = c.ask("Enter donation date (YYYY-MM-DD) [leave blank for today]: ", func(s string) error {
		_, err := ledger.ParseDate(s, today)
		return err
	})
	if err != nil {
		return err
	}

	in.Volume, err = c.ask("Enter donation volume in ml: ", func(s string) error {
		_, err := ledger.ParseVolume(s)
		return err
	})
	if err != nil {
		return err
	}

	rec, err := c.ctrl.AddDonation(in)
	if err != nil {
		fmt.Fprintf(c.out, "Donation not logged: %v\n", err)
		return nil
	}
	fmt.Fprintf(c.out, "Donation by %s logged successfully.\n", rec.Name)
	return nil
}

// ask reprompts until validate accepts the line.
func (c *Console) ask(prompt string, validate func(string) error) (string, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return "", err
		}
		if err := validate(line); err != nil {
			fmt.Fprintf(c.out, "Invalid input: %v\n", err)
			continue
		}
		return line, nil
	}
}

func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

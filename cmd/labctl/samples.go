package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"labtrack_backend/internals/client/autosave"
	"labtrack_backend/internals/client/forms"
	helper "labtrack_backend/internals/helpers"
)

func (a *app) nextCodeCmd() *cobra.Command {
	var received string
	cmd := &cobra.Command{
		Use:   "next-code",
		Short: "Cấp mã mẫu kế tiếp cho ngày nhận",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := helper.StartOfDay(time.Now())
			if received != "" {
				d, ok := helper.ParseDate(received)
				if !ok {
					return fmt.Errorf("--received phải là YYYY-MM-DD")
				}
				day = d
			}

			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.NextCode(cmd.Context(), day)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, res.SampleCode)
			return nil
		},
	}
	cmd.Flags().StringVar(&received, "received", "", "ngày nhận YYYY-MM-DD (mặc định hôm nay)")
	return cmd
}

func (a *app) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report SAMPLE_ID",
		Short: "In tin nhắn kết quả của một mẫu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("sample id: %w", err)
			}
			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := c.ReportMessage(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, rep.Message)
			return nil
		},
	}
}

// loadSampleForm: file JSON berisi field SampleForm; field kosong memakai default form baru
func loadSampleForm(path string) (forms.SampleForm, error) {
	f := forms.NewSampleForm()
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := sonic.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("decode %s: %w", path, err)
	}
	return f, nil
}

func (a *app) draftCmd() *cobra.Command {
	var (
		watch    bool
		interval time.Duration
		poll     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "draft SAMPLE_ID FILE",
		Short: "Lưu nháp mẫu từ file JSON; --watch tự lưu khi file thay đổi",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("sample id: %w", err)
			}
			path := args[1]
			form, err := loadSampleForm(path)
			if err != nil {
				return err
			}

			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			saver := autosave.New(func(ctx context.Context, f forms.SampleForm) error {
				_, err := c.UpdateSample(ctx, id, f.ToDraftPatch())
				return err
			}, autosave.Options{
				Interval: interval,
				Logger:   a.log,
				OnStatus: func(s autosave.Status) {
					if s == autosave.StatusSaved || s == autosave.StatusError {
						fmt.Fprintf(a.out, "%s %s\n", time.Now().Format("15:04:05"), s)
					}
				},
			})
			defer saver.Close()

			// nháp boleh belum lengkap; lỗi form chỉ cảnh báo
			if errs := form.Validate(); len(errs) > 0 {
				printFieldErrors(a, errs)
			}
			if err := saver.SaveNow(form); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watchDraft(ctx, path, poll, saver)
		},
	}
	fl := cmd.Flags()
	fl.BoolVar(&watch, "watch", false, "theo dõi file và tự lưu")
	fl.DurationVar(&interval, "interval", autosave.DefaultInterval, "debounce autosave")
	fl.DurationVar(&poll, "poll", time.Second, "chu kỳ kiểm tra file")
	return cmd
}

// watchDraft: polling mtime; setiap perubahan me-re-arm debounce, keluar → simpan terakhir
func (a *app) watchDraft(ctx context.Context, path string, poll time.Duration, saver *autosave.Autosaver[forms.SampleForm]) error {
	last := modTime(path)
	latest, _ := loadSampleForm(path)

	t := time.NewTicker(poll)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return saver.SaveNow(latest)
		case <-t.C:
			mt := modTime(path)
			if mt.Equal(last) {
				continue
			}
			last = mt
			f, err := loadSampleForm(path)
			if err != nil {
				a.log.Warn("draft file tidak terbaca", zap.String("path", path), zap.Error(err))
				continue
			}
			latest = f
			saver.Changed(f)
		}
	}
}

func modTime(path string) time.Time {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return st.ModTime()
}

package commands

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/helper-kust/internal/app/conversation"
	"github.com/PabloGalante/helper-kust/internal/app/session"
	"github.com/PabloGalante/helper-kust/internal/attachment"
	"github.com/PabloGalante/helper-kust/internal/domain"
	"github.com/PabloGalante/helper-kust/internal/i18n"
	"github.com/PabloGalante/helper-kust/internal/observability"
)

// askTaskID binds the throwaway session of a one-shot question.
const askTaskID domain.TaskID = "ask"

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question, optionally about an image",
	Long: `Ask sends one turn in a throwaway session and prints the reply.

Examples:
  helperkust ask "2+2?" --mode solve
  helperkust ask --image worksheet.jpg --lang en`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := newAppFunc(ctx)
		defer a.Close()

		modeFlag, _ := cmd.Flags().GetString("mode")
		mode, ok := domain.ParseAssistanceMode(modeFlag)
		if !ok {
			return fmt.Errorf("invalid mode %q: use help or solve", modeFlag)
		}

		lang := a.workspace.Language()
		if langFlag, _ := cmd.Flags().GetString("lang"); langFlag != "" {
			l, ok := i18n.Parse(langFlag)
			if !ok {
				return fmt.Errorf("unsupported language %q", langFlag)
			}
			lang = l
		}

		var image *domain.Attachment
		if path, _ := cmd.Flags().GetString("image"); path != "" {
			img, err := readImage(a.fs, path)
			if err != nil {
				observability.LoggerFromContext(ctx).Warn("sending without image", "path", path, "error", err)
			} else {
				image = img
			}
		}

		sess := session.New()
		sess.SwitchTask(askTaskID)

		out, err := a.executor.Execute(ctx, sess, conversation.TurnInput{
			Text:     strings.Join(args, " "),
			Image:    image,
			Mode:     mode,
			Language: lang,
		})
		if errors.Is(err, domain.ErrRejected) {
			return fmt.Errorf("nothing to ask: give a question or an image")
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), out.ReplyMessage.Text)
		return nil
	},
}

// readImage loads path and sniffs its media type from the content.
func readImage(fs afero.Fs, path string) (*domain.Attachment, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	mediaType := http.DetectContentType(raw)
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("%w: %s is %s, not an image", domain.ErrMalformedAttachment, path, mediaType)
	}
	return attachment.FromBytes(raw, mediaType)
}

func init() {
	askCmd.Flags().StringP("mode", "m", "help", "assistance mode: help or solve")
	askCmd.Flags().StringP("image", "i", "", "path to an image to attach")
	askCmd.Flags().StringP("lang", "l", "", "answer language: en, ru or es (default $HELPERKUST_LANGUAGE)")
}

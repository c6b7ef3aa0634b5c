package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/interview-coach/internal/interview"
	"github.com/spigell/interview-coach/internal/logger"
	"github.com/spigell/interview-coach/internal/oracle"
	"github.com/spigell/interview-coach/internal/oracle/gemini"
	"github.com/spigell/interview-coach/internal/secrets"

	"github.com/joho/godotenv"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	geminiAPIKeyEnv = "GEMINI_API_KEY"

	defaultTranscriptFile = "interview_log.json"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interview session",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("transcript-file", "t", "", "file to write the session transcript to")

	viper.BindPFlag("transcript-file", runCmd.Flags().Lookup("transcript-file"))
}

// run is the main command for the cli.
func run() {
	ctx := context.Background()

	// An optional .env keeps the api key out of the shell history.
	_ = godotenv.Load()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the interview-coach", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	completer, err := newOracle(ctx, config, logger)
	if err != nil {
		logger.Fatal(
			"configuring the oracle",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY (directly or via .env) or the 'oracle.gemini.api-key-file' key in the configuration file"),
		)
	}

	params, err := intake()
	if err != nil {
		logger.Fatal("reading candidate details", zap.Error(err))
	}

	session := interview.NewSession(params, interview.Deps{
		Oracle:       completer,
		Terminal:     &consoleTerminal{},
		Logger:       logger,
		MaxLogLength: maxLogLength(config),
	})

	report, err := session.Run(ctx)
	if err != nil {
		logger.Fatal("interview session failed", zap.Error(err))
	}

	filename := strings.TrimSpace(viper.GetString("transcript-file"))
	if filename == "" {
		filename = defaultTranscriptFile
	}

	if err := session.Transcript().Save(filename); err != nil {
		logger.Fatal("saving transcript", zap.Error(err))
	}

	fmt.Printf("Лог интервью сохранён в %s.\n", filename)
	fmt.Printf("\nФинальный отчёт:\n\n%s\n", report)
}

// newOracle builds the configured oracle client. Missing credentials are a
// configuration error surfaced before any session work begins.
func newOracle(ctx context.Context, config *Config, base *zap.Logger) (oracle.Completer, error) {
	oracleCfg := config.Oracle
	if oracleCfg == nil {
		oracleCfg = &OracleConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(oracleCfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported oracle provider: %s", oracleCfg.Provider)
	}

	geminiCfg := oracleCfg.Gemini
	if geminiCfg == nil {
		geminiCfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: geminiCfg.APIKeyFile,
		Env:  geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, err
	}

	model := strings.TrimSpace(viper.GetString("oracle.gemini.model"))
	if model == "" {
		model = geminiCfg.Model
	}

	oracleLogger := logger.WithCommonFields(base, "gemini", model)

	return gemini.New(ctx, apiKey, model, geminiCfg.MaxRetries, oracleLogger)
}

func maxLogLength(config *Config) int {
	if config.Oracle == nil || config.Oracle.Gemini == nil {
		return 0
	}
	return config.Oracle.Gemini.MaxLogLength
}

// intake collects the candidate details the interview starts from.
func intake() (interview.Params, error) {
	name, err := (&promptui.Prompt{Label: "Введите имя кандидата"}).Run()
	if err != nil {
		return interview.Params{}, err
	}

	position, err := (&promptui.Prompt{Label: "Введите позицию (например, Backend Developer)"}).Run()
	if err != nil {
		return interview.Params{}, err
	}

	_, grade, err := (&promptui.Select{
		Label: "Ожидаемый грейд",
		Items: []string{interview.GradeJunior, interview.GradeMiddle, interview.GradeSenior},
	}).Run()
	if err != nil {
		return interview.Params{}, err
	}

	experience, err := (&promptui.Prompt{Label: "Опишите опыт кандидата"}).Run()
	if err != nil {
		return interview.Params{}, err
	}

	return interview.Params{
		CandidateName: name,
		Position:      position,
		Grade:         grade,
		Experience:    experience,
	}, nil
}

// consoleTerminal is the stdin/stdout interview.Terminal.
type consoleTerminal struct{}

func (t *consoleTerminal) Show(message string) {
	fmt.Println(message)
}

func (t *consoleTerminal) ReadAnswer() (string, error) {
	return (&promptui.Prompt{Label: "Ваш ответ"}).Run()
}

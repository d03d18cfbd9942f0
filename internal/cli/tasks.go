package cli

import (
	"time"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
	"taskdeck/internal/staleness"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Browse and manage tasks",
	}

	var queueID, status string
	var offset, limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := normalizeTaskStatus(status)
			if err != nil {
				return writeErr(cmd, err)
			}
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			tasks, err := client.ListTasks(cmd.Context(), api.TaskFilter{
				QueueID: queueID,
				Status:  st,
				Offset:  offset,
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, tasks)
		},
	}
	list.Flags().StringVar(&queueID, "queue", "", "Filter by queue id")
	list.Flags().StringVar(&status, "status", "", "Filter by status (queued|claimed|running|succeeded|failed)")
	list.Flags().IntVar(&offset, "offset", 0, "Pagination offset")
	list.Flags().IntVar(&limit, "limit", 0, "Pagination limit")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task, including its staleness classification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			task, err := client.GetTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			st := staleness.Classify(task, time.Now())
			return writeOut(cmd, app, struct {
				model.Task
				Staleness stalenessOut `json:"staleness"`
			}{task, stalenessOut{
				ElapsedSeconds:   st.ElapsedSeconds,
				RemainingSeconds: st.RemainingSeconds,
				Stale:            st.IsStale,
				Warned:           st.IsWarned,
				Tier:             string(st.Tier()),
			}})
		},
	})

	var timeout int64
	var role, payload string
	enqueue := &cobra.Command{
		Use:   "enqueue <queue-id>",
		Short: "Enqueue a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			task, err := client.EnqueueTask(cmd.Context(), api.EnqueueRequest{
				QueueID:   args[0],
				Payload:   payload,
				Timeout:   timeout,
				AgentRole: role,
			})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, task)
		},
	}
	enqueue.Flags().StringVar(&payload, "payload", "", "Task payload")
	enqueue.Flags().Int64Var(&timeout, "timeout", 0, "Execution timeout in seconds (default 3600)")
	enqueue.Flags().StringVar(&role, "role", "", "Agent role")
	cmd.AddCommand(enqueue)

	cmd.AddCommand(newTaskVerbCmd(app, "claim", "Claim a task",
		func(c *api.Client, cmd *cobra.Command, id string) (model.Task, error) {
			return c.ClaimTask(cmd.Context(), id)
		}))
	cmd.AddCommand(newTaskVerbCmd(app, "requeue", "Requeue a task",
		func(c *api.Client, cmd *cobra.Command, id string) (model.Task, error) {
			return c.RequeueTask(cmd.Context(), id)
		}))
	cmd.AddCommand(newTaskVerbCmd(app, "rerun", "Rerun a finished task",
		func(c *api.Client, cmd *cobra.Command, id string) (model.Task, error) {
			return c.RerunTask(cmd.Context(), id)
		}))

	var result string
	complete := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a task succeeded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			task, err := client.CompleteTask(cmd.Context(), args[0], result)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, task)
		},
	}
	complete.Flags().StringVar(&result, "result", "", "Result payload")
	cmd.AddCommand(complete)

	var reason string
	fail := &cobra.Command{
		Use:   "fail <task-id>",
		Short: "Mark a task failed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			task, err := client.FailTask(cmd.Context(), args[0], reason)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, task)
		},
	}
	fail.Flags().StringVar(&reason, "reason", "", "Failure reason")
	cmd.AddCommand(fail)

	return cmd
}

type stalenessOut struct {
	ElapsedSeconds   int64  `json:"elapsed_seconds"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	Stale            bool   `json:"stale"`
	Warned           bool   `json:"warned"`
	Tier             string `json:"tier"`
}

func newTaskVerbCmd(app *App, verb, short string, run func(*api.Client, *cobra.Command, string) (model.Task, error)) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFor(app)
			if err != nil {
				return err
			}
			task, err := run(client, cmd, args[0])
			if err != nil {
				return err
			}
			return writeOut(cmd, app, task)
		},
	}
}

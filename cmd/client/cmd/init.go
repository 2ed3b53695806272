package cmd

import (
	"heybuddy/cmd/client/cmd/auth"
	"heybuddy/cmd/client/cmd/note"
	"heybuddy/cmd/client/cmd/schedule"
	syncmd "heybuddy/cmd/client/cmd/sync"
	"heybuddy/cmd/client/cmd/task"
	"heybuddy/cmd/client/cmd/transcript"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)

	rootCmd.AddCommand(note.NoteCmd)
	note.NoteCmd.AddCommand(note.CreateCmd)
	note.NoteCmd.AddCommand(note.ListCmd)
	note.NoteCmd.AddCommand(note.GetCmd)
	note.NoteCmd.AddCommand(note.UpdateCmd)
	note.NoteCmd.AddCommand(note.DeleteCmd)

	rootCmd.AddCommand(task.TaskCmd)
	task.TaskCmd.AddCommand(task.AddCmd)
	task.TaskCmd.AddCommand(task.ListCmd)
	task.TaskCmd.AddCommand(task.DoneCmd)
	task.TaskCmd.AddCommand(task.DeleteCmd)

	rootCmd.AddCommand(schedule.ScheduleCmd)
	schedule.ScheduleCmd.AddCommand(schedule.AddCmd)
	schedule.ScheduleCmd.AddCommand(schedule.ListCmd)
	schedule.ScheduleCmd.AddCommand(schedule.DeleteCmd)

	rootCmd.AddCommand(transcript.TranscriptCmd)
	transcript.TranscriptCmd.AddCommand(transcript.AddCmd)
	transcript.TranscriptCmd.AddCommand(transcript.ListCmd)
	transcript.TranscriptCmd.AddCommand(transcript.DeleteCmd)

	rootCmd.AddCommand(syncmd.SyncCmd)
}
